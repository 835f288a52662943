// Package geo provides the small amount of spherical math the camera
// planner needs: haversine distance and destination-point offsets.
package geo

import (
	"math"
)

// Point represents a geographic coordinate.
type Point struct {
	Lat float64
	Lng float64
}

const earthRadiusM = 6371000

// Distance calculates the Haversine distance between two points in meters.
func Distance(p1, p2 Point) float64 {
	dLat := (p2.Lat - p1.Lat) * (math.Pi / 180.0)
	dLng := (p2.Lng - p1.Lng) * (math.Pi / 180.0)
	lat1 := p1.Lat * (math.Pi / 180.0)
	lat2 := p2.Lat * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusM * c
}

// DestinationPoint calculates the destination point from a start point,
// given distance (in meters) and bearing (in degrees).
func DestinationPoint(start Point, distMeters, bearing float64) Point {
	lat1 := start.Lat * (math.Pi / 180.0)
	lng1 := start.Lng * (math.Pi / 180.0)
	brng := bearing * (math.Pi / 180.0)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(distMeters/earthRadiusM) +
		math.Cos(lat1)*math.Sin(distMeters/earthRadiusM)*math.Cos(brng))
	lng2 := lng1 + math.Atan2(math.Sin(brng)*math.Sin(distMeters/earthRadiusM)*math.Cos(lat1),
		math.Cos(distMeters/earthRadiusM)-math.Sin(lat1)*math.Sin(lat2))

	return Point{
		Lat: lat2 * (180.0 / math.Pi),
		Lng: lng2 * (180.0 / math.Pi),
	}
}
