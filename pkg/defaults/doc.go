// Package defaults centralizes timeouts and pacing constants for the konnector CLI.
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/PaloAltoNetworks/konnector-cli/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.QueryTimeout)
//	defer cancel()
//
// # Timeout Guidelines
//
//   - Queries: 2m per kubectl/helm invocation, kubectl's own request timeout is shorter
//   - Enumeration: 30s per client-go list
//   - Archive: 10m for the final tar.gz
//   - Update: 15s to check, 5m to download
package defaults
