// Package logx provides leveled logging configured from the environment.
//
// Environment Variables:
//   - LOG_LEVEL: minimum level (TRACE, DEBUG, INFO, WARN, ERROR, OFF)
//   - LOG_FORMAT: output format (console, cloudwatch, json)
//   - LOG_COLOR: colored console output (true/false, default: true)
//   - LOG_CALLER: caller information (true/false, default: true)
//
// Basic Usage:
//
//	logx.Info("Webhook server listening on :%d", 8080)
//	logx.Error("Failed to send message: %v", err)
//
// At DEBUG and TRACE, struct, map and slice arguments are rendered as JSON:
//
//	logx.Debug("Sending WhatsApp message: %v", payload)
//
// Bearer tokens and credential fields are masked in every entry, so request
// headers and configuration can be logged safely.
//
// Child loggers carry fields:
//
//	log := logx.With("request_id", id)
//	log.Info("notification accepted")
//
// Format Examples:
//
//	console:    [2025-06-08 18:57:52] [INFO] server.go:64: notification accepted request_id=5f0c...
//	cloudwatch: [2025-06-08T18:57:52.000Z] [INFO] server.go:64: notification accepted request_id=5f0c...
//	json:       {"timestamp":"2025-06-08T18:57:52Z","level":"INFO","message":"notification accepted","fields":{"request_id":"5f0c..."}}
package logx
