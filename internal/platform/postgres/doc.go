// Package postgres implements the user and task stores on PostgreSQL through
// pgx's database/sql driver. Session tokens live in their own table, ordered
// by insertion. Driver errors are folded into the store package's error
// taxonomy by MapError. The schema ships as embedded goose migrations and is
// applied with Migrate.
package postgres
