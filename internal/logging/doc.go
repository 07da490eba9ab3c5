// Package logging provides structured logging utilities for driveretriever.
//
// All logging goes through log/slog. This package keeps attribute names
// consistent across the codebase and builds the process-wide logger used by
// the CLI commands.
//
// # Usage Patterns
//
// Attach an operation to a logger:
//
//	logger := logging.WithOperation(slog.Default(), "drive.list")
//	logger.Info("listed folder",
//	    logging.FolderID(folderID),
//	    logging.Status(logging.StatusSuccess))
//
// Report per-file failures without aborting:
//
//	logger.Warn("download failed",
//	    logging.FileID(file.ID),
//	    logging.MimeType(file.MimeType),
//	    logging.Err(err))
//
// # Security Considerations
//
// Access and refresh tokens are never logged. Use SanitizeToken when the
// presence of a token has to be reported.
package logging
