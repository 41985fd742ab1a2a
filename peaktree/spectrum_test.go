package peaktree

import (
	"math"
	"testing"
)

func TestPrepareSpectrumSingleAverage(t *testing.T) {
	settings := CampaignSettings{
		Decoupling:      18.0,
		Smooth:          false,
		ThresFactorCoDb: 3.0,
		ThresFactorCxDb: 3.0,
		HasLDR:          true,
	}

	in := PrepareInput{
		Vel:    []float64{-1, 0, 1, 2},
		Z:      [][]float64{{0.1}, {0.5}, {1.0}, {0}},
		LDR:    [][]float64{{0.01}, {0.02}, {0.03}, {0}},
		SNRco:  [][]float64{{1}, {2}, {3}, {0}},
		Ts:     1000,
		RangeM: 500,
	}

	spec := PrepareSpectrum(in, settings)

	if spec.NoTempAvg != 1 {
		t.Errorf("NoTempAvg = %d, want 1", spec.NoTempAvg)
	}

	// single axis reversal: bin 3 (Z==0, masked) becomes bin 0 after reversal
	if !spec.SpecZMask[0] {
		t.Errorf("expected the zero-Z bin to be masked after reversal")
	}

	// SpecZValidcx is a raw reversed copy of SpecZ: never actually zeroed,
	// preserving the reference implementation's double-zeroing asymmetry.
	for i, v := range spec.SpecZValidcx {
		rev := reverseFloat64([]float64{0.1, 0.5, 1.0, 0})
		if v != rev[i] {
			t.Errorf("SpecZValidcx[%d] = %v, want raw copy value %v", i, v, rev[i])
		}
	}
}

func TestZeroFilledMaskedZ(t *testing.T) {
	spec := Spectrum{
		SpecZ:     []float64{1, 2, 3, 4},
		SpecZMask: []bool{false, true, false, false},
	}
	got := zeroFilledMaskedZ(spec, 2.5)
	want := []float64{0, 0, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("zeroFilledMaskedZ()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSmoothTripleTapZeroPaddedNotRenormalized(t *testing.T) {
	got := smoothTripleTap([]float64{1, 2, 3, 4})
	want := []float64{1.0, 2.0, 3.0, 2.75}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("smoothTripleTap()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestIsFinite(t *testing.T) {
	if !isFinite(1.0) {
		t.Error("isFinite(1.0) = false, want true")
	}
	if isFinite(math.NaN()) {
		t.Error("isFinite(NaN) = true, want false")
	}
	if isFinite(math.Inf(1)) {
		t.Error("isFinite(+Inf) = true, want false")
	}
}
