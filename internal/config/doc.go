// Package config loads server, database, auth and Sentry settings. The
// sources are an optional .env file, an optional config.yaml and TASKAPI_*
// environment variables, plus the bare PORT, JWT_SECRET, DATABASE_URL and
// SENTRY_DSN variables. The result is validated before use.
package config
