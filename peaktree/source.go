package peaktree

import "time"

// SpectrumSource is the external spectrum-source collaborator: a
// self-describing multi-dimensional dataset exposing time, range and
// velocity axes plus the Z, LDR, SNRco arrays indexed [velocity, range, time].
// Mirrors reader.go's Stream abstraction, generalised from a byte stream to a
// numeric array reader.
type SpectrumSource interface {
	TimeAxis() []time.Time
	RangeAxis() []float64
	VelocityAxis() []float64

	// Cell reads a single (itime, irange) column across the velocity axis.
	Cell(itime, irange int) (z, ldr, snrco []float64, err error)

	// Window reads and returns the [itimeBegin, itimeEnd] (inclusive) window
	// of columns at irange, one slice per velocity bin containing the window
	// values across time. Used for temporal averaging.
	Window(itimeBegin, itimeEnd, irange int) (z, ldr, snrco [][]float64, err error)

	Close() error
}

// timeIndex returns the index of the timestamp in axis closest to ts,
// mirroring the reference implementation's time_index helper.
func timeIndex(axis []time.Time, ts time.Time) int {
	best := 0
	bestDelta := absDuration(axis[0].Sub(ts))
	for i, t := range axis {
		d := absDuration(t.Sub(ts))
		if d < bestDelta {
			bestDelta = d
			best = i
		}
	}
	return best
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
