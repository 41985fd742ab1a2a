package peaktree

import "sort"

// Minimum is one local-minimum candidate: its bin index and the spectrum
// value there.
type Minimum struct {
	Index int
	Value float64
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// LocalMinima finds interior local minima of array by taking the sign of the
// first difference, then the first difference of that sign. Minima whose
// value falls below noiseThres*1.1 are dropped. Results are sorted ascending
// by value.
func LocalMinima(array []float64, noiseThres float64) []Minimum {
	n := len(array)
	if n < 3 {
		return nil
	}

	diff := make([]int, n-1)
	for i := 0; i < n-1; i++ {
		diff[i] = sign(array[i+1] - array[i])
	}

	sdiff := make([]int, len(diff)-1)
	for i := range sdiff {
		sdiff[i] = diff[i+1] - diff[i]
	}

	risingAll := make([]bool, len(sdiff))
	for i, v := range sdiff {
		risingAll[i] = v == 2
	}
	for i := 1; i < len(sdiff); i++ {
		if sdiff[i-1] == 1 && sdiff[i] == 1 {
			risingAll[i] = risingAll[i] || true
		}
	}

	var minima []Minimum
	threshold := noiseThres * 1.1
	for i, rising := range risingAll {
		if !rising {
			continue
		}
		idx := i + 1
		if array[idx] < threshold {
			continue
		}
		minima = append(minima, Minimum{Index: idx, Value: array[idx]})
	}

	sort.SliceStable(minima, func(i, j int) bool {
		return minima[i].Value < minima[j].Value
	})

	return minima
}
