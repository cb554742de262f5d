// Package store defines the repository interfaces the services persist
// users and tasks through, together with the transaction helpers and the
// error vocabulary every implementation shares.
package store
