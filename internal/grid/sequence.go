package grid

import (
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
)

// Sequence produces row or column indices. Every call to Indices starts
// a fresh enumeration, so one Sequence can drive several scans.
// A Sequence may be unbounded.
type Sequence interface {
	Indices() iter.Seq[uint32]
}

// SequenceFunc adapts a generator function to Sequence
type SequenceFunc func() iter.Seq[uint32]

// Indices calls f()
func (f SequenceFunc) Indices() iter.Seq[uint32] {
	return f()
}

// Span yields start, start+1, ..., end-1
func Span(start, end uint32) Sequence {
	return Step(start, end, 1)
}

// Step yields start, start+step, ... while below end. A zero step yields nothing.
func Step(start, end, step uint32) Sequence {
	return SequenceFunc(func() iter.Seq[uint32] {
		return func(yield func(uint32) bool) {
			if step == 0 {
				return
			}
			for i := uint64(start); i < uint64(end); i += uint64(step) {
				if !yield(uint32(i)) {
					return
				}
			}
		}
	})
}

// Descending yields end-1, end-2, ..., start
func Descending(start, end uint32) Sequence {
	return SequenceFunc(func() iter.Seq[uint32] {
		return func(yield func(uint32) bool) {
			for i := int64(end) - 1; i >= int64(start); i-- {
				if !yield(uint32(i)) {
					return
				}
			}
		}
	})
}

// From yields start, start+1, ... up to math.MaxUint32.
// Callers must stop consuming it themselves.
func From(start uint32) Sequence {
	return SequenceFunc(func() iter.Seq[uint32] {
		return func(yield func(uint32) bool) {
			for i := uint64(start); i <= math.MaxUint32; i++ {
				if !yield(uint32(i)) {
					return
				}
			}
		}
	})
}

// Values yields the given indices in order
func Values(indices ...uint32) Sequence {
	held := append([]uint32(nil), indices...)
	return SequenceFunc(func() iter.Seq[uint32] {
		return func(yield func(uint32) bool) {
			for _, i := range held {
				if !yield(i) {
					return
				}
			}
		}
	})
}

// ParseSequence reads the textual sequence forms used in configuration:
//
//	"3"       single index
//	"1,5,6"   explicit list
//	"0..10"   half-open span
//	"0..10:2" span with step
//	"5.."     unbounded from 5
//	"9>3"     descending from 8 down to 3
func ParseSequence(s string) (Sequence, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty sequence")
	}

	if before, after, ok := strings.Cut(s, ">"); ok {
		end, err := parseIndex(before)
		if err != nil {
			return nil, err
		}
		start, err := parseIndex(after)
		if err != nil {
			return nil, err
		}
		return Descending(start, end), nil
	}

	if before, after, ok := strings.Cut(s, ".."); ok {
		start, err := parseIndex(before)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(after) == "" {
			return From(start), nil
		}

		step := uint32(1)
		if endPart, stepPart, hasStep := strings.Cut(after, ":"); hasStep {
			after = endPart
			if step, err = parseIndex(stepPart); err != nil {
				return nil, err
			}
			if step == 0 {
				return nil, fmt.Errorf("sequence %q: step must be positive", s)
			}
		}
		end, err := parseIndex(after)
		if err != nil {
			return nil, err
		}
		return Step(start, end, step), nil
	}

	parts := strings.Split(s, ",")
	indices := make([]uint32, 0, len(parts))
	for _, p := range parts {
		i, err := parseIndex(p)
		if err != nil {
			return nil, err
		}
		indices = append(indices, i)
	}
	return Values(indices...), nil
}

func parseIndex(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q: %w", s, err)
	}
	return uint32(n), nil
}
