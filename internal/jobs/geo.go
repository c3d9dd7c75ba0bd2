package jobs

import "math"

const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between two points.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	rlat1 := lat1 * math.Pi / 180
	rlat2 := lat2 * math.Pi / 180
	dLatR := (lat2 - lat1) * math.Pi / 180
	dLngR := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLatR/2)*math.Sin(dLatR/2) +
		math.Cos(rlat1)*math.Cos(rlat2)*math.Sin(dLngR/2)*math.Sin(dLngR/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// Box is a latitude/longitude rectangle used as an index-friendly prefilter.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBox returns a rectangle containing every point within radiusKm of
// (lat, lng). Near a pole or the antimeridian the longitude span widens to
// the full range.
func BoundingBox(lat, lng, radiusKm float64) Box {
	angular := radiusKm / earthRadiusKm
	dLat := angular * 180 / math.Pi
	b := Box{MinLat: lat - dLat, MaxLat: lat + dLat, MinLng: -180, MaxLng: 180}

	if b.MinLat <= -90 || b.MaxLat >= 90 {
		b.MinLat = math.Max(b.MinLat, -90)
		b.MaxLat = math.Min(b.MaxLat, 90)
		return b
	}

	dLng := math.Asin(math.Sin(angular)/math.Cos(lat*math.Pi/180)) * 180 / math.Pi
	if lng-dLng < -180 || lng+dLng > 180 {
		return b
	}
	b.MinLng, b.MaxLng = lng-dLng, lng+dLng
	return b
}
