// Package logging provides structured logging for the vzug tools.
//
// This package wraps a zap logger with convenience functions. Logging is silent
// by default so that CLI output stays clean; set VZUG_LOG_LEVEL (or pass a level
// to Initialize) to see what the appliance client is doing.
//
// # Log Levels
//
//   - Debug: raw call URLs and response bodies, retry attempts
//   - Info: load sequences started and finished, resolved device fields
//   - Warn: recoverable oddities in device responses
//   - Error: auth problems, transport failures, device-reported error codes
//
// # Usage
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
//	logging.Info("Loading device information", zap.String("host", host))
//
// Logs go to stderr in console format.
package logging
