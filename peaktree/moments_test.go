package peaktree

import (
	"math"
	"testing"
)

func TestMomentSymmetricWeights(t *testing.T) {
	x := []float64{-2, -1, 0, 1, 2}
	z := []float64{1, 2, 4, 2, 1}

	mean, width, skew := moment(x, z)

	if math.Abs(mean) > 1e-9 {
		t.Errorf("mean = %v, want ~0 for symmetric weights", mean)
	}
	if width <= 0 {
		t.Errorf("width = %v, want > 0", width)
	}
	if math.Abs(skew) > 1e-9 {
		t.Errorf("skew = %v, want ~0 for symmetric weights", skew)
	}
}

func TestCalcMomentsNoLDR(t *testing.T) {
	spec := Spectrum{
		Vel:           []float64{-2, -1, 0, 1, 2},
		SpecZ:         []float64{0, 1, 4, 1, 0},
		SpecZMask:     []bool{true, false, false, false, true},
		SpecSNRco:     []float64{0, 1, 4, 1, 0},
		SpecSNRcoMask: []bool{true, false, false, false, true},
		HasLDR:        false,
		NoiseThres:    0.1,
	}

	v, width, _, z, ldr, ldrmax, prominence := CalcMoments(spec, Bounds{L: 1, R: 3}, 0.1)

	if math.Abs(v) > 1e-9 {
		t.Errorf("v = %v, want ~0", v)
	}
	if width <= 0 {
		t.Errorf("width = %v, want > 0", width)
	}
	if z != 6 {
		t.Errorf("z = %v, want 6 (sum of bins 1..3)", z)
	}
	if ldr != 0.0 || ldrmax != 0.0 {
		t.Errorf("ldr/ldrmax = %v/%v, want 0/0 when HasLDR is false", ldr, ldrmax)
	}
	if prominence <= 0 {
		t.Errorf("prominence = %v, want > 0", prominence)
	}
}
