package peaktree

import "testing"

func TestFullTreeID(t *testing.T) {
	tests := []struct {
		coord []int
		want  int
	}{
		{coord: []int{0}, want: 0},
		{coord: []int{0, 0}, want: 1},
		{coord: []int{0, 1}, want: 2},
		{coord: []int{0, 0, 0}, want: 3},
		{coord: []int{0, 0, 1}, want: 4},
		{coord: []int{0, 1, 0}, want: 5},
		{coord: []int{0, 1, 1}, want: 6},
	}

	for _, tt := range tests {
		if got := FullTreeID(tt.coord); got != tt.want {
			t.Errorf("FullTreeID(%v) = %d, want %d", tt.coord, got, tt.want)
		}
	}
}

func TestTraverseSeedsRootAtZero(t *testing.T) {
	root := &Node{Bounds: Bounds{L: 0, R: 10}}
	nodes := Traverse(root)
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node for a childless root, got %d", len(nodes))
	}
	if len(nodes[0].Coords) != 1 || nodes[0].Coords[0] != 0 {
		t.Errorf("root coords = %v, want [0]", nodes[0].Coords)
	}
}

func TestAssignIDsResolvesParents(t *testing.T) {
	root := &Node{Bounds: Bounds{L: 0, R: 10}}
	left := &Node{Bounds: Bounds{L: 0, R: 4}}
	right := &Node{Bounds: Bounds{L: 5, R: 10}}
	root.Children = []*Node{left, right}

	nodes := Traverse(root)
	byID := AssignIDs(nodes)

	if byID[0].ParentID != -1 {
		t.Errorf("root ParentID = %d, want -1", byID[0].ParentID)
	}
	if byID[1].ParentID != 0 {
		t.Errorf("left child ParentID = %d, want 0", byID[1].ParentID)
	}
	if byID[2].ParentID != 0 {
		t.Errorf("right child ParentID = %d, want 0", byID[2].ParentID)
	}
}
