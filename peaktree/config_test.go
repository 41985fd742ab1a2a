package peaktree

import (
	"errors"
	"math"
	"testing"
)

func TestLoadCampaignSettingsKnown(t *testing.T) {
	for _, name := range []string{"lindenberg", "juelich", "default"} {
		settings, err := LoadCampaignSettings(name)
		if err != nil {
			t.Fatalf("LoadCampaignSettings(%q) returned error: %v", name, err)
		}
		if settings.Campaign != name {
			t.Errorf("settings.Campaign = %q, want %q", settings.Campaign, name)
		}
		if settings.MaxNoNodes <= 0 {
			t.Errorf("settings.MaxNoNodes = %d, want > 0", settings.MaxNoNodes)
		}
	}
}

func TestLoadCampaignSettingsUnknown(t *testing.T) {
	_, err := LoadCampaignSettings("nonexistent-campaign")
	if !errors.Is(err, ErrUnknownCampaign) {
		t.Errorf("err = %v, want wrapped ErrUnknownCampaign", err)
	}
}

func TestDbToLinear(t *testing.T) {
	tests := []struct {
		db   float64
		want float64
	}{
		{db: 0, want: 1.0},
		{db: 10, want: 10.0},
		{db: 20, want: 100.0},
		{db: -10, want: 0.1},
	}

	for _, tt := range tests {
		got := dbToLinear(tt.db)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("dbToLinear(%v) = %v, want %v", tt.db, got, tt.want)
		}
	}
}
