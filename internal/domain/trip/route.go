package trip

import "math"

const earthRadiusKm = 6371.0

// HaversineKm is the great-circle distance between two lat/lng points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// HasPosition reports whether the checkpoint carries coordinates.
func (c *Checkpoint) HasPosition() bool {
	return c.Latitude != nil && c.Longitude != nil
}
