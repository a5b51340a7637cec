package stats

import "time"

// Bins assigns each timestamp to a fixed-width bin aligned to the UTC clock
// and returns the start of every bin between the first and last sample,
// including empty ones, plus the bin index of each input.
func Bins(ts []time.Time, width time.Duration) (starts []time.Time, index []int) {
	if len(ts) == 0 || width <= 0 {
		return nil, nil
	}
	first, last := ts[0].Truncate(width), ts[0].Truncate(width)
	for _, t := range ts[1:] {
		b := t.Truncate(width)
		if b.Before(first) {
			first = b
		}
		if b.After(last) {
			last = b
		}
	}
	n := int(last.Sub(first)/width) + 1
	starts = make([]time.Time, n)
	for i := range starts {
		starts[i] = first.Add(time.Duration(i) * width)
	}
	index = make([]int, len(ts))
	for i, t := range ts {
		index[i] = int(t.Truncate(width).Sub(first) / width)
	}
	return starts, index
}

// Accumulator averages the non-null values it is given.
type Accumulator struct {
	sum float64
	n   int
}

func (a *Accumulator) Add(v *float64) {
	if v == nil {
		return
	}
	a.sum += *v
	a.n++
}

// Mean returns nil when nothing non-null was added.
func (a *Accumulator) Mean() *float64 {
	if a.n == 0 {
		return nil
	}
	m := a.sum / float64(a.n)
	return &m
}
