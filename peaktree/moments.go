package peaktree

import "math"

// moment computes the bin-weighted mean, rms width and skewness of a velocity
// slice x against weights Z.
func moment(x, z []float64) (mean, width, skew float64) {
	var sumZ, sumVZ float64
	for i, zi := range z {
		sumZ += zi
		sumVZ += x[i] * zi
	}
	mean = sumVZ / sumZ

	var sumSq float64
	for i, zi := range z {
		d := x[i] - mean
		sumSq += d * d * zi
	}
	width = math.Sqrt(sumSq / sumZ)

	var sumCube float64
	for i, zi := range z {
		d := x[i] - mean
		sumCube += d * d * d * zi
	}
	skew = sumCube / (sumZ * width * width * width)

	return mean, width, skew
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func sumRange(values []float64, l, r int) float64 {
	sum := 0.0
	for i := l; i <= r; i++ {
		sum += values[i]
	}
	return sum
}

// CalcMoments computes the moment fields for one traversed node's bounds and
// threshold. The second ldr formula (Zcx_validcx/Z_validcx sum-ratio) wins
// unless non-finite or numerically zero, and the specZcx_validcx/specZ_validcx
// zeroing asymmetry is carried through from Spectrum unmodified.
func CalcMoments(spec Spectrum, bounds Bounds, thres float64) (v, width, skew, z, ldr, ldrmax, prominence float64) {
	l, r := bounds.L, bounds.R

	z = sumRange(spec.SpecZ, l, r)

	maskedZ := zeroFilledMaskedZ(spec, thres)
	v, width, skew = moment(spec.Vel[l:r+1], maskedZ[l:r+1])

	indMax := l + argmax(spec.SpecSNRco[l:r+1])

	if !spec.HasLDR {
		return v, width, skew, z, 0.0, 0.0, boundedProminence(spec, indMax, thres)
	}

	if spec.SpecZMask[indMax] {
		prominence = 1e-99
	} else {
		prominence = spec.SpecZ[indMax] / thres
	}

	ldrmax = spec.SpecLDR[indMax]

	allZcxMasked := true
	for i := l; i <= r; i++ {
		if !spec.SpecZcxMask[i] {
			allZcxMasked = false
			break
		}
	}

	if allZcxMasked {
		ldr = math.NaN()
	} else {
		num := sumRange(spec.SpecZcxValidcx, l, r)
		den := sumRange(spec.SpecZValidcx, l, r)
		ldr2 := num / den
		if isFinite(ldr2) && math.Abs(ldr2) > 1e-12 {
			ldr = ldr2
		} else {
			ldr = math.NaN()
		}
	}

	return v, width, skew, z, ldr, ldrmax, prominence
}

func boundedProminence(spec Spectrum, indMax int, thres float64) float64 {
	if spec.SpecZMask[indMax] {
		return 1e-99
	}
	return spec.SpecZ[indMax] / thres
}
