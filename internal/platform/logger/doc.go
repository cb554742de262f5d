// Package logger provides structured logging for the application.
//
// It builds JSON loggers on log/slog and threads request-scoped loggers
// and trace ids through context.Context so every layer logs with the
// same correlation attributes.
package logger
