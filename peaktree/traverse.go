package peaktree

// TraversedNode is the flattened, post-build record for one tree node: its
// path from the root, bounds, splitting threshold, resolved parent id and
// the moment fields attached by the moment calculator.
type TraversedNode struct {
	Coords   []int
	Bounds   Bounds
	Thres    float64
	ParentID int

	V          float64
	Width      float64
	Skew       float64
	Z          float64
	LDR        float64
	LDRMax     float64
	Prominence float64
}

// Traverse performs a pre-order depth-first walk of root, yielding one
// record per node. The root's coordinate is seeded as [0], matching the
// reference implementation's traverse(tree, [0]) call, so that the
// level-order ids come out as [0] -> 0, [0,0] -> 1, [0,1] -> 2, ...
func Traverse(root *Node) []TraversedNode {
	var out []TraversedNode
	var walk func(n *Node, coords []int)
	walk = func(n *Node, coords []int) {
		out = append(out, TraversedNode{
			Coords: append([]int(nil), coords...),
			Bounds: n.Bounds,
			Thres:  n.Threshold,
		})
		for i, c := range n.Children {
			walk(c, append(append([]int(nil), coords...), i))
		}
	}
	walk(root, []int{0})
	return out
}

// FullTreeID converts a node's coordinate path into its level-order id in the
// conceptual full binary tree.
func FullTreeID(coord []int) int {
	n := len(coord)
	idx := (1 << (n - 1)) - 1
	for k := 0; k < n; k++ {
		if coord[n-1-k] == 1 {
			idx += 1 << k
		}
	}
	return idx
}

// coordsEqual reports whether two coordinate paths are identical.
func coordsEqual(a, b []int) bool {
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

// AssignIDs maps each traversed node to its level-order id and resolves each
// node's parent id by looking up its coordinate's strict prefix among
// already-assigned nodes. The root (coords == [0]) has ParentID -1.
func AssignIDs(nodes []TraversedNode) map[int]TraversedNode {
	byID := make(map[int]TraversedNode, len(nodes))
	for _, node := range nodes {
		id := FullTreeID(node.Coords)
		parentCoords := node.Coords[:len(node.Coords)-1]
		parentID := -1
		for otherID, other := range byID {
			if coordsEqual(other.Coords, parentCoords) {
				parentID = otherID
				break
			}
		}
		node.ParentID = parentID
		byID[id] = node
	}
	return byID
}
