// Package logger provides structured logging for the insurance AI system
// using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
// # Usage
//
//	log := logger.Get("orchestrator")
//	log.Info("provider call completed", logger.Fields("provider", "openai"))
package logger
