package peaktree

import "testing"

func boundsEqual(a, b []Bounds) bool {
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

func TestDetectPeaks(t *testing.T) {
	tests := []struct {
		name  string
		spec  []float64
		thres float64
		want  []Bounds
	}{
		{
			name:  "no bins above threshold",
			spec:  []float64{0, 0, 0, 0},
			thres: 1.0,
			want:  nil,
		},
		{
			name:  "single-bin run discarded",
			spec:  []float64{0, 5, 0, 0, 5, 0},
			thres: 1.0,
			want:  nil,
		},
		{
			name:  "two runs survive",
			spec:  []float64{0, 5, 6, 0, 0, 5, 5, 0},
			thres: 1.0,
			want:  []Bounds{{L: 1, R: 2}, {L: 5, R: 6}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectPeaks(tt.spec, tt.thres)
			if !boundsEqual(got, tt.want) {
				t.Errorf("DetectPeaks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitByGap(t *testing.T) {
	tests := []struct {
		name      string
		peaks     []Bounds
		wantLeft  []Bounds
		wantRight []Bounds
	}{
		{
			name:      "single peak is the no-split sentinel",
			peaks:     []Bounds{{L: 1, R: 2}},
			wantLeft:  []Bounds{{L: 1, R: 2}},
			wantRight: []Bounds{{L: 1, R: 2}},
		},
		{
			name:      "splits at the widest gap",
			peaks:     []Bounds{{L: 0, R: 1}, {L: 3, R: 4}, {L: 20, R: 21}},
			wantLeft:  []Bounds{{L: 0, R: 1}, {L: 3, R: 4}},
			wantRight: []Bounds{{L: 20, R: 21}},
		},
		{
			name:      "ties break toward the lowest index",
			peaks:     []Bounds{{L: 0, R: 1}, {L: 5, R: 6}, {L: 10, R: 11}},
			wantLeft:  []Bounds{{L: 0, R: 1}},
			wantRight: []Bounds{{L: 5, R: 6}, {L: 10, R: 11}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, right := SplitByGap(tt.peaks)
			if !boundsEqual(left, tt.wantLeft) || !boundsEqual(right, tt.wantRight) {
				t.Errorf("SplitByGap() = (%v, %v), want (%v, %v)", left, right, tt.wantLeft, tt.wantRight)
			}
		})
	}
}

func TestGapSplitTreeStopsAtSingletons(t *testing.T) {
	peaks := []Bounds{{L: 0, R: 1}, {L: 3, R: 4}, {L: 20, R: 21}}
	pairs := GapSplitTree(peaks)
	// the three-peak hull splits once, then its two-peak left side splits
	// again; the single-peak sides produce no further pairs.
	if len(pairs) != 2 {
		t.Fatalf("expected two split pairs, got %d", len(pairs))
	}
	if pairs[0].Left != (Bounds{L: 0, R: 4}) {
		t.Errorf("left hull = %v, want {0 4}", pairs[0].Left)
	}
	if pairs[0].Right != (Bounds{L: 20, R: 21}) {
		t.Errorf("right hull = %v, want {20 21}", pairs[0].Right)
	}
	if pairs[1].Left != (Bounds{L: 0, R: 1}) || pairs[1].Right != (Bounds{L: 3, R: 4}) {
		t.Errorf("second pair = %+v, want {0 1}/{3 4}", pairs[1])
	}
}
