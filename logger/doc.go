// Package logger provides structured logging over zerolog.
//
// It supports JSON and console output, level configuration, a process-wide
// global logger and a registry of named, component-scoped loggers.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("modular")
//	log.Debug("Module started", logger.Fields("module", name))
package logger
