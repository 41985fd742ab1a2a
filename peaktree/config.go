package peaktree

import (
	"errors"
	"math"
)

// CampaignSettings holds the per-campaign configuration recognised by the
// spectrum preparation and assembly stages.
type CampaignSettings struct {
	Campaign        string  `json:"campaign"`
	Decoupling      float64 `json:"decoupling"`
	Smooth          bool    `json:"smooth"`
	GridTime        float64 `json:"grid_time"` // seconds; <= 0 disables re-gridding
	MaxNoNodes      int     `json:"max_no_nodes"`
	ThresFactorCoDb float64 `json:"thres_factor_co_db"`
	ThresFactorCxDb float64 `json:"thres_factor_cx_db"`
	HasLDR          bool    `json:"ldr_available"`
	StationAltitude float64 `json:"station_altitude"`
}

// ExternalMetadata is the small site-description document accompanying a
// spectrum source array, loaded via ReadExternalMetadata.
type ExternalMetadata struct {
	Description string `json:"description"`
	Location    string `json:"location"`
	Institution string `json:"institution"`
	Contact     string `json:"contact"`
}

// dbToLinear converts a dB value into a linear multiplier.
func dbToLinear(db float64) float64 {
	return math.Pow(10.0, db/10.0)
}

// campaignRegistry is the compact, built-in lookup table of recognised
// campaigns, in the style of the small const/map lookup tables used
// elsewhere for record and sub-record names (see decode.go's RecordNames).
var campaignRegistry = map[string]CampaignSettings{
	"lindenberg": {
		Campaign:        "lindenberg",
		Decoupling:      18.0,
		Smooth:          true,
		GridTime:        30.0,
		MaxNoNodes:      15,
		ThresFactorCoDb: 3.0,
		ThresFactorCxDb: 3.0,
		HasLDR:          true,
		StationAltitude: 104.0,
	},
	"juelich": {
		Campaign:        "juelich",
		Decoupling:      20.0,
		Smooth:          true,
		GridTime:        0,
		MaxNoNodes:      15,
		ThresFactorCoDb: 3.0,
		ThresFactorCxDb: 3.0,
		HasLDR:          true,
		StationAltitude: 111.0,
	},
	"default": {
		Campaign:        "default",
		Decoupling:      0.0,
		Smooth:          false,
		GridTime:        0,
		MaxNoNodes:      15,
		ThresFactorCoDb: 3.0,
		ThresFactorCxDb: 3.0,
		HasLDR:          false,
		StationAltitude: 0.0,
	},
}

// LoadCampaignSettings resolves a campaign identifier against the built-in
// registry. An unknown identifier is a configuration error, fatal at startup.
func LoadCampaignSettings(campaign string) (CampaignSettings, error) {
	settings, ok := campaignRegistry[campaign]
	if !ok {
		return CampaignSettings{}, errors.Join(ErrUnknownCampaign, errors.New(campaign))
	}
	return settings, nil
}
