package geo

import "github.com/enerlytic/solarplan-go/internal/models"

// German region banding by coordinates. Latitude splits off the north and
// south bands; the central belt splits east/west by longitude.
const (
	northLatMin = 53.5
	southLatMax = 49.5
	westLonMax  = 8.0
	eastLonMin  = 12.5
)

// Region tags.
const (
	RegionNorth  = "north"
	RegionSouth  = "south"
	RegionEast   = "east"
	RegionWest   = "west"
	RegionCenter = "center"
)

// RegionFor maps coordinates to a region tag.
func RegionFor(lat, lon float64) string {
	switch {
	case lat > northLatMin:
		return RegionNorth
	case lat < southLatMax:
		return RegionSouth
	case lon < westLonMax:
		return RegionWest
	case lon > eastLonMin:
		return RegionEast
	default:
		return RegionCenter
	}
}

// NewLocationProfile derives the immutable location profile for a coordinate
// pair.
func NewLocationProfile(lat, lon float64) models.LocationProfile {
	return models.LocationProfile{
		Latitude:  lat,
		Longitude: lon,
		RegionTag: RegionFor(lat, lon),
	}
}
