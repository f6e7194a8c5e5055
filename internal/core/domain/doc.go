// Package domain defines the core business entities for aipsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Descriptor: A remotely published document (display name + locator)
//   - Category: One entry of the fixed category table (GEN, ENR, AD, SUP)
//   - Verdict: The freshness classification of one descriptor
//   - BundleEntry: One (path, bookmark label) pair of the merged bundle
//   - SyncReport: The outcome of one orchestrator run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
