// Package interval implements half-open range arithmetic over minutes of a day.
package interval

// Span is the half-open range [Start, End).
type Span struct {
	Start int
	End   int
}

func (s Span) Empty() bool {
	return s.Start >= s.End
}

// Overlaps reports whether two spans share any minute. Touching endpoints do
// not overlap, and an empty span overlaps nothing.
func (s Span) Overlaps(o Span) bool {
	if s.Empty() || o.Empty() {
		return false
	}
	return s.Start < o.End && o.Start < s.End
}

// Subtract removes cut from base. It returns the surviving pieces in order and
// whether base was split in two. An empty cut leaves base unchanged.
func Subtract(base, cut Span) ([]Span, bool) {
	if !base.Overlaps(cut) {
		return []Span{base}, false
	}
	var pieces []Span
	if cut.Start > base.Start {
		pieces = append(pieces, Span{Start: base.Start, End: cut.Start})
	}
	if cut.End < base.End {
		pieces = append(pieces, Span{Start: cut.End, End: base.End})
	}
	return pieces, len(pieces) == 2
}

// Steps walks s in fixed-size steps and returns every full step. A trailing
// remainder shorter than size is dropped.
func Steps(s Span, size int) []Span {
	if size <= 0 {
		return nil
	}
	var out []Span
	for start := s.Start; start <= s.End-size; start += size {
		out = append(out, Span{Start: start, End: start + size})
	}
	return out
}
