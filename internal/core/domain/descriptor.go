package domain

import (
	"sort"
	"time"
)

// Descriptor identifies one remotely published document.
// Descriptors are produced by a DescriptorSource and never mutated.
type Descriptor struct {
	// DisplayName is the human-readable name shown on the category page.
	DisplayName string

	// Locator is the relative or absolute URI of the document.
	Locator string
}

// EffectiveDate returns the effective date encoded in the display name.
// See ParseEffectiveDate.
func (d Descriptor) EffectiveDate() (time.Time, bool) {
	return ParseEffectiveDate(d.DisplayName)
}

// OrderByEffectiveDate returns a copy of descs sorted by effective date.
// Descriptors without an effective date keep their relative order and
// sort after dated ones.
func OrderByEffectiveDate(descs []Descriptor) []Descriptor {
	out := make([]Descriptor, len(descs))
	copy(out, descs)

	sort.SliceStable(out, func(i, j int) bool {
		di, iok := out[i].EffectiveDate()
		dj, jok := out[j].EffectiveDate()
		switch {
		case iok && jok:
			return di.Before(dj)
		case iok:
			return true
		default:
			return false
		}
	})
	return out
}
