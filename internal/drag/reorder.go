// Package drag computes where a dragged list entry lands while the pointer
// moves over the list.
package drag

import "math"

// Box is the vertical extent of one rendered entry.
type Box struct {
	Top    float64
	Height float64
}

func (b Box) Center() float64 { return b.Top + b.Height/2 }

// Candidate is an entry other than the one being dragged.
type Candidate struct {
	ID  int64
	Box Box
}

// InsertBefore picks the entry the dragged one should be placed in front of:
// among candidates whose center is still below pointerY, the one closest to
// it. ok is false when the pointer is below every center, meaning the
// dragged entry goes to the end of the list.
func InsertBefore(candidates []Candidate, pointerY float64) (Candidate, bool) {
	best := math.Inf(-1)
	var out Candidate
	found := false
	for _, c := range candidates {
		offset := pointerY - c.Box.Top - c.Box.Height/2
		if offset < 0 && offset > best {
			best = offset
			out = c
			found = true
		}
	}
	return out, found
}

// RowLayout places entries as equal-height rows stacked from Top.
type RowLayout struct {
	Top       float64
	RowHeight float64
}

func (l RowLayout) Box(index int) Box {
	h := l.RowHeight
	if h <= 0 {
		h = 1
	}
	return Box{Top: l.Top + float64(index)*h, Height: h}
}
