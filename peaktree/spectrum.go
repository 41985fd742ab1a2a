package peaktree

import "math"

// Spectrum is a prepared per-cell Doppler spectrum, following the Spectrum
// record of the data model: one velocity axis of length Nv plus the
// reflectivity, LDR and SNR channels and their validity masks.
type Spectrum struct {
	Vel []float64

	SpecZ     []float64
	SpecZMask []bool

	SpecLDR     []float64
	SpecLDRMask []bool

	SpecSNRco     []float64
	SpecSNRcoMask []bool

	SpecZcx     []float64
	SpecZcxMask []bool

	// SpecZValidcx and SpecZcxValidcx are copies of Z and Zcx used by the
	// integrated ldr ratio. SpecZcxValidcx is zeroed at
	// SpecZcxMask bins; SpecZValidcx is left as a raw copy of SpecZ. This
	// asymmetry mirrors a latent bug in the reference implementation
	// (a second zeroing statement was meant to target SpecZValidcx but
	// reassigns SpecZcxValidcx instead) and is preserved intentionally.
	SpecZValidcx   []float64
	SpecZcxValidcx []float64

	NoiseThres float64
	Decoupling float64

	Ts        float64
	RangeM    float64
	NoTempAvg int

	HasLDR bool
}

// isFinite reports whether f is neither NaN nor +/-Inf, mirroring numpy's
// np.isfinite used throughout the masking rules.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func minValid(values []float64, mask []bool) (float64, bool) {
	found := false
	min := math.Inf(1)
	for i, v := range values {
		if mask[i] {
			continue
		}
		if !found || v < min {
			min = v
			found = true
		}
	}
	return min, found
}

// averageWindow averages a [][]float64 of shape [Nv][window] along the
// window axis, producing a length-Nv slice.
func averageWindow(window [][]float64) []float64 {
	nv := len(window)
	out := make([]float64, nv)
	for i, row := range window {
		sum := 0.0
		for _, v := range row {
			sum += v
		}
		out[i] = sum / float64(len(row))
	}
	return out
}

// reverse returns a new slice with elements in reverse order.
func reverseFloat64(in []float64) []float64 {
	n := len(in)
	out := make([]float64, n)
	for i, v := range in {
		out[n-1-i] = v
	}
	return out
}

func reverseBool(in []bool) []bool {
	n := len(in)
	out := make([]bool, n)
	for i, v := range in {
		out[n-1-i] = v
	}
	return out
}

// smoothTripleTap applies the symmetric three-tap convolution (0.25, 0.5, 0.25),
// zero-padded at the boundaries rather than renormalized (np.convolve(..., mode='same')
// with an implicit zero fill, not a truncated-and-rescaled average).
func smoothTripleTap(in []float64) []float64 {
	n := len(in)
	out := make([]float64, n)
	taps := [3]struct {
		off int
		w   float64
	}{{-1, 0.25}, {0, 0.5}, {1, 0.25}}
	for i := 0; i < n; i++ {
		var sum float64
		for _, t := range taps {
			j := i + t.off
			if j < 0 || j >= n {
				continue
			}
			sum += in[j] * t.w
		}
		out[i] = sum
	}
	return out
}

// PrepareInput carries the raw per-cell (or per-window) arrays a SpectrumSource
// hands to PrepareSpectrum, before masking and axis reversal are applied.
type PrepareInput struct {
	Vel    []float64
	Z      [][]float64 // [Nv][window]; window length 1 for single-cell mode
	LDR    [][]float64
	SNRco  [][]float64
	Ts     float64
	RangeM float64
}

// PrepareSpectrum builds a prepared Spectrum from raw source arrays, applying
// masking, Zcx derivation, the noise threshold, optional smoothing and the
// single axis reversal.
func PrepareSpectrum(in PrepareInput, settings CampaignSettings) Spectrum {
	noAverages := len(in.Z[0])

	var specZ, specLDR, specSNRco []float64
	if noAverages == 1 {
		specZ = make([]float64, len(in.Z))
		specLDR = make([]float64, len(in.Z))
		specSNRco = make([]float64, len(in.Z))
		for i := range in.Z {
			specZ[i] = in.Z[i][0]
			specLDR[i] = in.LDR[i][0]
			specSNRco[i] = in.SNRco[i][0]
		}
	} else {
		nv := len(in.Z)
		zcxAvg := make([]float64, nv)
		zAvg := make([]float64, nv)
		for i := 0; i < nv; i++ {
			var zcxSum, zSum float64
			for w := 0; w < noAverages; w++ {
				zcxSum += in.Z[i][w] * in.LDR[i][w]
				zSum += in.Z[i][w]
			}
			zcxAvg[i] = zcxSum / float64(noAverages)
			zAvg[i] = zSum / float64(noAverages)
		}
		specZ = zAvg
		specLDR = make([]float64, nv)
		for i := range specLDR {
			specLDR[i] = zcxAvg[i] / zAvg[i]
		}
		specSNRco = averageWindow(in.SNRco)
	}

	nv := len(specZ)
	specZMask := make([]bool, nv)
	for i, v := range specZ {
		specZMask[i] = v == 0 || !isFinite(v)
	}
	specLDRMask := make([]bool, nv)
	for i, v := range specLDR {
		specLDRMask[i] = !isFinite(v)
	}
	specSNRcoMask := make([]bool, nv)
	for i, v := range specSNRco {
		specSNRcoMask[i] = v == 0
	}

	specZcx := make([]float64, nv)
	for i := range specZcx {
		specZcx[i] = specZ[i] * specLDR[i]
	}
	specZcxMask := make([]bool, nv)
	for i := range specZcxMask {
		specZcxMask[i] = specZMask[i] || specLDRMask[i]
	}

	minZcx, anyValidZcx := minValid(specZcx, specZcxMask)
	thresZcx := math.Inf(1)
	if anyValidZcx {
		thresZcx = minZcx * dbToLinear(settings.ThresFactorCxDb)
	}
	for i := range specZcxMask {
		if specZcx[i] < thresZcx || !isFinite(specZcx[i]) {
			specZcxMask[i] = true
		}
	}

	specZcxValidcx := make([]float64, nv)
	copy(specZcxValidcx, specZcx)
	for i := range specZcxValidcx {
		if specZcxMask[i] {
			specZcxValidcx[i] = 0.0
		}
	}

	// SpecZValidcx is a raw copy of specZ: the reference implementation's
	// second zeroing statement reassigns specZcx_validcx again instead of
	// specZ_validcx, so specZ_validcx never actually gets zeroed. Preserved
	// as written (see DESIGN.md for the grounding note).
	specZValidcx := make([]float64, nv)
	copy(specZValidcx, specZ)

	minZ, anyValidZ := minValid(specZ, specZMask)
	var noiseThres float64
	if !anyValidZ {
		noiseThres = 1e-25
	} else {
		noiseThres = minZ * dbToLinear(settings.ThresFactorCoDb)
	}

	if settings.Smooth {
		specZ = smoothTripleTap(specZ)
	}

	// single axis reversal; velocity axis itself is not reversed
	spec := Spectrum{
		Vel:            in.Vel,
		SpecZ:          reverseFloat64(specZ),
		SpecZMask:      reverseBool(specZMask),
		SpecLDR:        reverseFloat64(specLDR),
		SpecLDRMask:    reverseBool(specLDRMask),
		SpecSNRco:      reverseFloat64(specSNRco),
		SpecSNRcoMask:  reverseBool(specSNRcoMask),
		SpecZcx:        reverseFloat64(specZcx),
		SpecZcxMask:    reverseBool(specZcxMask),
		SpecZValidcx:   reverseFloat64(specZValidcx),
		SpecZcxValidcx: reverseFloat64(specZcxValidcx),
		NoiseThres:     noiseThres,
		Decoupling:     settings.Decoupling,
		Ts:             in.Ts,
		RangeM:         in.RangeM,
		NoTempAvg:      noAverages,
		HasLDR:         settings.HasLDR,
	}

	return spec
}

// zeroFilledMaskedZ returns specZ with masked bins and bins below thres
// replaced by zero, as used by the moment calculator and by minima
// detection.
func zeroFilledMaskedZ(spec Spectrum, thres float64) []float64 {
	out := make([]float64, len(spec.SpecZ))
	for i, v := range spec.SpecZ {
		if spec.SpecZMask[i] || v < thres {
			out[i] = 0.0
			continue
		}
		out[i] = v
	}
	return out
}
