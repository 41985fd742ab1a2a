package peaktree

import "math"

// Node is a peak-tree node, owning contiguous bounds on the velocity axis and
// a captured slice of the spectrum.
type Node struct {
	Bounds    Bounds
	Threshold float64
	SpecChunk []float64
	Level     int
	Children  []*Node
	PromFilter float64
}

const promFilterDb = 1.0

func newNode(bounds Bounds, chunk []float64, thres float64, level int) *Node {
	return &Node{
		Bounds:     bounds,
		Threshold:  thres,
		SpecChunk:  chunk,
		Level:      level,
		PromFilter: promFilterDb,
	}
}

func lin2db(v float64) float64 {
	return 10.0 * math.Log10(v)
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// BuildRoot constructs the root node spanning the outermost surviving peak
// bins.
func BuildRoot(peaks []Bounds, specZ []float64, noiseThres float64) *Node {
	if len(peaks) == 0 {
		return nil
	}
	l := peaks[0].L
	r := peaks[len(peaks)-1].R
	chunk := make([]float64, r-l+1)
	copy(chunk, specZ[l:r+1])
	return newNode(Bounds{L: l, R: r}, chunk, noiseThres, 0)
}

// fittingChild returns the single child whose bounds strictly contain [bl, br],
// or nil if there is none.
func (n *Node) fittingChild(bl, br int) *Node {
	for _, c := range n.Children {
		if c.Bounds.L <= bl && c.Bounds.R >= br {
			return c
		}
	}
	return nil
}

// AddNoiseSep inserts a noise-separated sibling pair, recursing into a
// containing child when one exists, gated by a prominence filter.
func (n *Node) AddNoiseSep(left, right Bounds, thres float64) {
	if child := n.fittingChild(left.L, right.R); child != nil {
		child.AddNoiseSep(left, right, thres)
		return
	}

	specLeft := n.SpecChunk[left.L-n.Bounds.L : left.R+1-n.Bounds.L]
	specRight := n.SpecChunk[right.L-n.Bounds.L : right.R+1-n.Bounds.L]

	promLeft := maxOf(specLeft) / thres
	promRight := maxOf(specRight) / thres

	if lin2db(promLeft) > n.PromFilter && lin2db(promRight) > n.PromFilter {
		n.Children = append(n.Children,
			newNode(left, append([]float64(nil), specLeft...), thres, n.Level+1),
			newNode(right, append([]float64(nil), specRight...), thres, n.Level+1),
		)
	}
}

// AddMin inserts an interior local-minimum split at bin m, recursing into a
// containing child when one exists, gated by a prominence filter unless
// ignoreProm is set.
func (n *Node) AddMin(m int, thres float64, ignoreProm bool) {
	if m < n.Bounds.L || m > n.Bounds.R {
		panic(ErrTreeConstruction)
	}

	if child := n.fittingChild(m, m); child != nil {
		child.AddMin(m, thres, false)
		return
	}

	specLeft := n.SpecChunk[:m+1-n.Bounds.L]
	specRight := n.SpecChunk[m-n.Bounds.L:]

	promLeft := maxOf(specLeft) / thres
	promRight := maxOf(specRight) / thres

	if (lin2db(promLeft) > n.PromFilter && lin2db(promRight) > n.PromFilter) || ignoreProm {
		n.Children = append(n.Children,
			newNode(Bounds{L: n.Bounds.L, R: m}, append([]float64(nil), specLeft...), thres, n.Level+1),
			newNode(Bounds{L: m, R: n.Bounds.R}, append([]float64(nil), specRight...), thres, n.Level+1),
		)
	}
}

// BuildTree detects peaks, constructs the root, inserts noise-gap siblings,
// then inserts local-minimum splits. Returns nil if the spectrum carries no
// peaks above threshold.
func BuildTree(spec Spectrum) *Node {
	maskedZ := zeroFilledMaskedZ(spec, math.Inf(-1))
	// detection itself only needs masked bins zeroed, not sub-threshold bins,
	// so re-zero using only the validity mask (thres = -inf keeps all valid bins).
	peaks := DetectPeaks(maskedZ, spec.NoiseThres)
	if len(peaks) == 0 {
		return nil
	}

	root := BuildRoot(peaks, spec.SpecZ, spec.NoiseThres)

	for _, pair := range GapSplitTree(peaks) {
		root.AddNoiseSep(pair.Left, pair.Right, spec.NoiseThres)
	}

	minimaInput := zeroFilledMaskedZ(spec, spec.NoiseThres*1.1)
	for _, m := range LocalMinima(minimaInput, spec.NoiseThres) {
		root.AddMin(m.Index, m.Value, false)
	}

	return root
}
