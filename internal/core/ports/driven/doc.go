// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DescriptorSource: Lists the documents of a category
//   - Transport: Probes resource metadata and streams resource bodies
//   - Filesystem: Local mirror storage (presence, timestamps, atomic writes)
//   - BundleEncoderFactory: Creates the merged-document encoder for a run
//   - Clock: The current instant, for effective-date gating
//   - ConfigStore: Application configuration
//   - SchedulerStore: Scheduler task state (schedule command only)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Publisher: Uploads the finalized bundle. Without it, the bundle stays local.
//   - MetricsSink: Exports run counters. Without it, only the log reports them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
