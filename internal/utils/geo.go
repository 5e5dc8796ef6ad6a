package utils

import "math"

// EarthRadiusMiles is the radius used for all distance queries.
const EarthRadiusMiles = 3963.0

// HaversineMiles is the great-circle distance between two points given in degrees.
func HaversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Pow(math.Sin(dLng/2), 2)

	return EarthRadiusMiles * 2 * math.Asin(math.Sqrt(a))
}
