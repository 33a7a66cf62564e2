// Package chunk splits index spaces into contiguous ranges for fork-join
// execution. The parallel engine partitions points and centroids with it, and
// the simulated device uses it to spread work-items across lanes.
package chunk

// Range is a half-open index interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of indexes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Ranges splits [0, n) into at most parts contiguous, non-empty ranges of
// near-equal size. When n does not divide evenly, the first n%parts ranges
// carry one extra index. parts <= 0 is treated as 1; n <= 0 yields nil.
func Ranges(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	if parts <= 0 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	out := make([]Range, parts)
	size := n / parts
	rem := n % parts

	start := 0
	for i := range out {
		end := start + size
		if i < rem {
			end++
		}
		out[i] = Range{Start: start, End: end}
		start = end
	}

	return out
}
