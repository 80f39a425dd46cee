// Package logger provides structured logging for apiclient built on zerolog.
//
// Loggers are plain values passed to the components that need them; there
// is a process-wide default for CLIs that do not want to thread one through.
//
//	log := logger.New(&logger.Config{Level: "debug", Format: "json"}, "apiclient")
//	log.WithComponent("refresh").Info("refresh completed", logger.Fields("waiters", 3))
//
// Bearer and refresh tokens must never be passed as log fields.
package logger
