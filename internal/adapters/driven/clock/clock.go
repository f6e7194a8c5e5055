// Package clock provides the system clock.
package clock

import (
	"time"

	"github.com/custodia-labs/aipsync/internal/core/ports/driven"
)

// Ensure System implements the interface.
var _ driven.Clock = System{}

// System reads the wall clock in UTC.
type System struct{}

// Now returns the current time in UTC.
func (System) Now() time.Time {
	return time.Now().UTC()
}
