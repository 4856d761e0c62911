package diag

import (
	"cmp"
	"math"
	"slices"

	"fortio.org/safecast"

	"docl/internal/source"
)

// Bag collects diagnostics up to a limit. Diagnostics offered past the limit
// are counted, not stored.
type Bag struct {
	items   []Diagnostic
	limit   uint16
	dropped int
}

// NewBag creates a bag holding at most limit diagnostics; values beyond the
// uint16 range are clamped.
func NewBag(limit int) *Bag {
	n, err := safecast.Conv[uint16](limit)
	if err != nil {
		n = math.MaxUint16
	}
	return &Bag{items: make([]Diagnostic, 0, min(n, 64)), limit: n}
}

// Add stores d unless the bag is full and reports whether it did.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.limit) {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Force stores d even when the bag is full.
func (b *Bag) Force(d Diagnostic) {
	b.items = append(b.items, d)
}

func (b *Bag) Cap() uint16 { return b.limit }

func (b *Bag) Len() int { return len(b.items) }

// Dropped counts the diagnostics Add refused.
func (b *Bag) Dropped() int { return b.dropped }

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

// Items exposes the stored diagnostics. READONLY.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Sort orders by file, start, end, severity (desc), code (asc).
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup keeps the first diagnostic of every code and primary span.
func (b *Bag) Dedup() {
	type key struct {
		code Code
		span source.Span
	}
	seen := make(map[key]struct{}, len(b.items))
	b.items = slices.DeleteFunc(b.items, func(d Diagnostic) bool {
		k := key{d.Code, d.Primary}
		if _, dup := seen[k]; dup {
			return true
		}
		seen[k] = struct{}{}
		return false
	})
}
