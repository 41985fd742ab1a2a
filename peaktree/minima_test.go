package peaktree

import "testing"

func TestLocalMinimaShortInputs(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		got := LocalMinima(make([]float64, n), 0)
		if got != nil {
			t.Errorf("LocalMinima(len=%d) = %v, want nil", n, got)
		}
	}
}

func TestLocalMinimaFindsInteriorDip(t *testing.T) {
	// a single valley at index 3, surrounded by rises on both sides
	array := []float64{1, 3, 5, 2, 6, 4, 1}
	got := LocalMinima(array, 0)

	found := false
	for _, m := range got {
		if m.Index == 3 {
			found = true
			if m.Value != 2 {
				t.Errorf("minimum value at index 3 = %v, want 2", m.Value)
			}
		}
	}
	if !found {
		t.Errorf("expected a local minimum at index 3, got %v", got)
	}
}

func TestLocalMinimaDropsBelowThreshold(t *testing.T) {
	array := []float64{1, 3, 5, 0.5, 6, 4, 1}
	got := LocalMinima(array, 1.0)
	for _, m := range got {
		if m.Index == 3 {
			t.Errorf("expected the sub-threshold minimum at index 3 to be dropped, got %v", got)
		}
	}
}

func TestLocalMinimaSortedAscendingByValue(t *testing.T) {
	array := []float64{1, 5, 1, 9, 0.5, 9, 1}
	got := LocalMinima(array, 0)
	for i := 1; i < len(got); i++ {
		if got[i].Value < got[i-1].Value {
			t.Errorf("minima not sorted ascending by value: %v", got)
		}
	}
}
