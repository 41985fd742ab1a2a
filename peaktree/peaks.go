package peaktree

// Bounds is an inclusive bin-index range [L, R] on the velocity axis.
type Bounds struct {
	L, R int
}

// DetectPeaks finds contiguous runs of bins strictly above thres in a
// zero-filled masked spectrum, discards single-bin runs, and returns the
// remaining runs in ascending order.
func DetectPeaks(spec []float64, thres float64) []Bounds {
	var runs []Bounds
	i := 0
	n := len(spec)
	for i < n {
		if spec[i] > thres {
			start := i
			for i < n && spec[i] > thres {
				i++
			}
			end := i - 1
			if end > start {
				runs = append(runs, Bounds{L: start, R: end})
			}
			continue
		}
		i++
	}
	return runs
}

// SplitByGap splits a sorted list of peaks at the widest inter-peak gap.
// A length-1 input returns (peaks, peaks) as the sentinel for "no split".
func SplitByGap(peaks []Bounds) (left, right []Bounds) {
	if len(peaks) == 1 {
		return peaks, peaks
	}

	maxGap := peaks[1].L - peaks[0].R
	splitAt := 0
	for i := 1; i < len(peaks)-1; i++ {
		gap := peaks[i+1].L - peaks[i].R
		if gap > maxGap {
			maxGap = gap
			splitAt = i
		}
	}
	return peaks[:splitAt+1], peaks[splitAt+1:]
}

// SplitPair describes one level of the noise-gap hierarchy: the outer hulls
// of the left and right halves produced by one SplitByGap call.
type SplitPair struct {
	Left, Right Bounds
}

// GapSplitTree yields a pre-order stream of noise-gap split pairs, recursing
// into each non-empty side.
func GapSplitTree(peaks []Bounds) []SplitPair {
	var pairs []SplitPair
	var walk func(peaks []Bounds)
	walk = func(peaks []Bounds) {
		left, right := SplitByGap(peaks)
		if sameBoundsSlice(left, right) {
			return
		}
		pairs = append(pairs, SplitPair{
			Left:  Bounds{L: left[0].L, R: left[len(left)-1].R},
			Right: Bounds{L: right[0].L, R: right[len(right)-1].R},
		})
		walk(left)
		walk(right)
	}
	walk(peaks)
	return pairs
}

func sameBoundsSlice(a, b []Bounds) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
