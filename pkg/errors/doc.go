// Package errors provides structured error types for better observability
// and programmatic error handling across the konnector CLI.
//
// Fatal conditions of a support-bundle run (missing tools, absent namespace,
// archive failures, interrupts) are reported as StructuredError values; the
// CLI maps their codes to process exit statuses.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeNotFound,
//	    "namespace does not exist",
//	    apiErr,
//	    map[string]any{
//	        "namespace": ns,
//	    },
//	)
package errors
