// Package domain contains the core business entities of the task manager:
// users with their session tokens and avatar, and the tasks they own.
//
// Validation lives here as ordinary functions. Services call Validate and
// the patch Apply methods explicitly before anything is persisted, so a
// rejected request never leaves a partial write behind.
package domain
