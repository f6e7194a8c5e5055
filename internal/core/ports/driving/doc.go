// Package driving defines the interfaces that drive the core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI calls into the core only through these interfaces.
package driving
