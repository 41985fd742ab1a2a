package peaktree

// BuildTraversedTree runs the full per-cell pipeline: builds the peak tree
// from a prepared spectrum, traverses it, assigns level-order ids, and
// attaches moments to every node. Returns an empty map for a spectrum with no
// bins above threshold; this is not an error.
func BuildTraversedTree(spec Spectrum) map[int]TraversedNode {
	root := BuildTree(spec)
	if root == nil {
		return map[int]TraversedNode{}
	}

	nodes := Traverse(root)
	byID := AssignIDs(nodes)

	for id, node := range byID {
		v, width, skew, z, ldr, ldrmax, prominence := CalcMoments(spec, node.Bounds, node.Thres)
		node.V = v
		node.Width = width
		node.Skew = skew
		node.Z = z
		node.LDR = ldr
		node.LDRMax = ldrmax
		node.Prominence = prominence
		byID[id] = node
	}

	return byID
}
