package peaktree

import (
	"testing"
	"time"
)

func mkAxis(n int, step time.Duration) []time.Time {
	axis := make([]time.Time, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range axis {
		axis[i] = base.Add(time.Duration(i) * step)
	}
	return axis
}

func TestBuildTimeGridDropsEmptyBins(t *testing.T) {
	axis := mkAxis(6, 2*time.Second) // 0,2,4,6,8,10s
	bins := buildTimeGrid(axis, 5*time.Second)

	for _, b := range bins {
		if b.IndexEnd <= b.IndexBegin {
			t.Errorf("empty bin present in grid: %+v", b)
		}
	}

	total := 0
	for _, b := range bins {
		total += b.IndexEnd - b.IndexBegin
	}
	if total != len(axis) {
		t.Errorf("grid covers %d source indices, want %d", total, len(axis))
	}
}

func TestBuildTimeGridSingleBinWhenIntervalCoversAll(t *testing.T) {
	axis := mkAxis(4, time.Second)
	bins := buildTimeGrid(axis, time.Hour)
	if len(bins) != 1 {
		t.Fatalf("expected a single bin, got %d", len(bins))
	}
	if bins[0].IndexBegin != 0 || bins[0].IndexEnd != 4 {
		t.Errorf("bin = %+v, want IndexBegin=0 IndexEnd=4", bins[0])
	}
}

func TestPackedNodeIDsKeepsLiteralIDsWithGaps(t *testing.T) {
	// a root that only splits further on one side leaves a gapped id set,
	// e.g. {0,1,2} plus a grandchild pair {5,6} via FullTreeID.
	ids := []int{0, 1, 2, 5, 6}
	got := packedNodeIDs(ids, 5)
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("packedNodeIDs() = %v, want %v", got, want)
	}
	for i, id := range want {
		if got[i] != id {
			t.Errorf("packedNodeIDs()[%d] = %d, want %d", i, got[i], id)
		}
	}
}

func TestPackedNodeIDsNeverRenumbers(t *testing.T) {
	ids := []int{0, 2, 6}
	got := packedNodeIDs(ids, 10)
	want := []int{0, 2, 6}
	for i, id := range want {
		if got[i] != id {
			t.Errorf("packedNodeIDs()[%d] = %d, want %d (ids must not be compacted)", i, got[i], id)
		}
	}
}

func TestBeginDateMetadata(t *testing.T) {
	ts := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	got := beginDateMetadata(ts)
	if got.Year != 2024 || got.Month != 3 || got.Day != 15 {
		t.Errorf("beginDateMetadata() = %+v, want {2024 3 15}", got)
	}
}
