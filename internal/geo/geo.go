// Package geo computes great-circle distances for proximity search.
package geo

import "math"

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371000.0

// Distance returns the haversine distance in meters between two points
// given in decimal degrees.
func Distance(lat1, long1, lat2, long2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLong := radians(long2 - long1)
	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Pow(math.Sin(dLong/2), 2)
	return 2 * EarthRadius * math.Asin(math.Sqrt(a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
