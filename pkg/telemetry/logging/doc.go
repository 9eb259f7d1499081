// Package logging configures the process-wide log/slog logger.
//
// # Overview
//
// New builds a JSON or text handler whose level is held in a slog.LevelVar,
// so a configuration reload can change verbosity without rebuilding the
// logger. The handler is wrapped to:
//   - add request_id and client fields carried by the context
//   - redact PII (emails, phone and card numbers, bearer tokens) from string
//     attributes when RedactPII is set
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json", RedactPII: true})
//	if err != nil {
//	    return err
//	}
//	logger.Install()
//
//	ctx = logging.WithRequestID(ctx, id)
//	slog.InfoContext(ctx, "chat completed", "type", "home") // includes request_id
//
//	logger.SetLevel("debug")
//
// Chat message text is logged only as a short preview, and previews pass
// through the redactor like every other string attribute.
package logging
