package peaktree

import (
	"testing"
	"time"
)

func TestTimeIndexPicksClosest(t *testing.T) {
	axis := []time.Time{
		time.Unix(0, 0),
		time.Unix(10, 0),
		time.Unix(20, 0),
		time.Unix(30, 0),
	}

	got := timeIndex(axis, time.Unix(22, 0))
	if got != 2 {
		t.Errorf("timeIndex() = %d, want 2", got)
	}
}

func TestAbsDuration(t *testing.T) {
	if absDuration(-5*time.Second) != 5*time.Second {
		t.Errorf("absDuration(-5s) != 5s")
	}
	if absDuration(5*time.Second) != 5*time.Second {
		t.Errorf("absDuration(5s) != 5s")
	}
}
