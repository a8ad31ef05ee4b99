package survey

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// The engine computes in a planar, locally metric system so that stations
// and offsets are plain Euclidean lengths. Spherical Web Mercator is used:
// it is globally consistent, fast, and reversible to well under a
// centimetre, at the cost of scale distortion at extreme latitudes. That
// trade is accepted for sub-metre pipeline work; the adapter is not
// geodesically exact and does not try to be.

// GeographicToPlanar converts WGS84 degrees to planar metres.
func GeographicToPlanar(lon, lat float64) (x, y float64) {
	p := project.Point(orb.Point{lon, lat}, project.WGS84.ToMercator)
	return p.X(), p.Y()
}

// PlanarToGeographic converts planar metres back to WGS84 degrees.
func PlanarToGeographic(x, y float64) (lon, lat float64) {
	p := project.Point(orb.Point{x, y}, project.Mercator.ToWGS84)
	return p.X(), p.Y()
}

// planarPoint returns the planar position of a survey point. Callers must
// check coordinate presence first; a missing coordinate yields a NaN point.
func planarPoint(p *Point) orb.Point {
	x, y := GeographicToPlanar(p.Longitude, p.Latitude)
	return orb.Point{x, y}
}
