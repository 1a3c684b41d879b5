// Package logger provides structured logging for audiovault using zerolog.
//
// Loggers write JSON or console output to stdout, stderr or an
// append-only file, and carry component and stage tags plus the
// stage/outcome/error_kind/error_code fields the conversion pipeline emits.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "/var/log/audiovault.log"
//
// # Usage
//
//	log := logger.Get("store")
//	log.Error("append failed", logger.Fields(logger.FieldOperation, "append", logger.FieldRecordID, id))
package logger
