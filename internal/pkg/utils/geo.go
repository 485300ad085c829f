package utils

import "math"

// EarthRadiusMeters is the mean radius used for the spherical-Earth approximation.
const EarthRadiusMeters = 6371000.0

// Coordinate is a WGS84 point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// HaversineDistance returns the great-circle distance between a and b in meters.
func HaversineDistance(a, b Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	// guard against h drifting above 1 from floating point error
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(math.Min(1, h)))
}

// OffsetNorth returns the coordinate lying meters due north of c.
// Used to place points at a known distance from a site.
func OffsetNorth(c Coordinate, meters float64) Coordinate {
	return Coordinate{
		Lat: c.Lat + (meters/EarthRadiusMeters)*180.0/math.Pi,
		Lng: c.Lng,
	}
}
