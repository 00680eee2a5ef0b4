// Package logging provides structured logging utilities for the konnector CLI.
//
// # Overview
//
// This package wraps the standard library slog package with konnector defaults
// so that every package logs the same way. It supports environment-based log
// level configuration, module/version context injection, and source location
// tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: per-query detail, including the kubectl/helm arguments, with source location
//   - INFO: section and per-pod progress of a collection run (default)
//   - WARN/WARNING: a single artifact could not be collected; the run continues
//   - ERROR: fatal conditions that abort the run
//
// # Usage
//
// Setting the default logger (recommended):
//
//	logging.SetDefaultStructuredLoggerWithLevel("konnector", version, cmd.String("log-level"))
//	slog.Info("collecting section", "section", "cluster")
//
// Creating a dedicated logger:
//
//	logger := logging.NewStructuredLogger("konnector", version, "debug")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls verbosity when --log-level is not given:
//
//	LOG_LEVEL=debug konnector collect-logs -n panw
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "WARN",
//	    "msg": "artifact collection failed",
//	    "module": "konnector",
//	    "version": "v1.4.0",
//	    "path": "logs/agent-0_agent.previous.log"
//	}
//
// Stdout is reserved for the final archive path so it can be captured by scripts.
package logging
