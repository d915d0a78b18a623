package geo

import "math"

const earthRadius = 6371000 // meters

// HaversineDistance returns the great-circle distance between two coordinates in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Fence is a circular boundary around an office coordinate.
type Fence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// Distance returns how far (lat, lon) is from the fence center in meters.
func (f Fence) Distance(lat, lon float64) float64 {
	return HaversineDistance(lat, lon, f.Latitude, f.Longitude)
}

// Contains reports whether (lat, lon) lies on or inside the fence.
func (f Fence) Contains(lat, lon float64) bool {
	return f.Distance(lat, lon) <= f.RadiusMeters
}
