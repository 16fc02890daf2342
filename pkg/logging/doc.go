// Package logging provides structured logging configuration for mockapi.
//
// It wraps log/slog so every component logs the same way:
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatJSON,
//	})
//	logger.Info("server started", "addr", ":8787")
//
// Components accept a *slog.Logger in their constructor or via an option and
// fall back to Nop when none is given.
package logging
