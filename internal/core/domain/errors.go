package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownCategory indicates a category id outside the category table.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrSyncInProgress indicates a sync is already running.
	ErrSyncInProgress = errors.New("sync in progress")

	// Transfer Errors.

	// ErrTransfer indicates a metadata probe or body transfer failed.
	// Recovered per document by the category synchroniser.
	ErrTransfer = errors.New("transfer failed")

	// ErrDisallowed indicates robots.txt forbids fetching a resource.
	ErrDisallowed = errors.New("disallowed by robots.txt")

	// Assembly Errors.

	// ErrAssembly indicates the bundle could not be appended to or written.
	// Not recovered: it aborts the run.
	ErrAssembly = errors.New("bundle assembly failed")

	// ErrBundleFinalized indicates use of a bundle after it was finalized.
	ErrBundleFinalized = errors.New("bundle already finalized")
)

// TransferError describes a failed transport operation on one resource.
type TransferError struct {
	// Op is the transport operation ("head", "get", "write").
	Op string

	// Locator is the resource being transferred.
	Locator string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *TransferError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Op, e.Locator)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the causes so errors.Is matches ErrTransfer and Err.
func (e *TransferError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransfer}
	}
	return []error{ErrTransfer, e.Err}
}

// AssemblyError describes a bundle encoder failure.
type AssemblyError struct {
	// Path is the document or output file involved.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *AssemblyError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrAssembly.Error(), e.Path, e.Err)
}

// Unwrap returns the causes so errors.Is matches ErrAssembly and Err.
func (e *AssemblyError) Unwrap() []error {
	return []error{ErrAssembly, e.Err}
}
