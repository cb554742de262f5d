// Package service contains the application's use cases. It orchestrates the
// domain entities and the repositories defined in internal/store to sign
// users up, manage their sessions, profiles and avatars, and manage the
// tasks they own.
//
// Services receive their dependencies through constructor injection and
// never depend on a concrete storage implementation. Operations that touch
// more than one repository run inside a store.Transactor so they succeed or
// fail as a unit.
//
// Error handling:
//   - Expected conditions are reported with sentinel errors (ErrInvalidCredentials,
//     ErrUnauthenticated) or the store and domain sentinels they wrap
//   - Callers use errors.Is/errors.As; the API layer maps them to status codes
package service
