// Package logger provides structured logging for chunkscribe using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("chunked")
//	log.Info("chunk transcribed", logger.Fields(logger.FieldChunkIndex, 2))
package logger
