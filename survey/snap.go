package survey

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Snap projects a planar point onto the path and returns the arc-length
// station of the nearest point together with the perpendicular offset.
// Candidates are compared with strict less-than, so an exact tie between two
// path segments resolves to the first one along the path's parameterization.
func (p *ReferencePath) Snap(pt orb.Point) (station, offset float64) {
	bestDist := -1.0
	for i := 0; i+1 < len(p.Line); i++ {
		a, b := p.Line[i], p.Line[i+1]
		t, proj := projectOntoSegment(pt, a, b)
		d := planar.Distance(pt, proj)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			station = p.cum[i] + t*(p.cum[i+1]-p.cum[i])
		}
	}
	return station, bestDist
}

// projectOntoSegment returns the clamped parameter t in [0,1] and the closest
// point to pt on segment ab.
func projectOntoSegment(pt, a, b orb.Point) (float64, orb.Point) {
	dx, dy := b.X()-a.X(), b.Y()-a.Y()
	segLenSq := dx*dx + dy*dy
	if segLenSq == 0 {
		return 0, a
	}
	t := ((pt.X()-a.X())*dx + (pt.Y()-a.Y())*dy) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t, orb.Point{a.X() + t*dx, a.Y() + t*dy}
}

// SnapPoints computes Station and Offset for every survey point that has
// resolved coordinates. Each point is projected independently; the path is
// read-only and shared. Points without coordinates keep a missing station and
// are reported in the log. Returns ErrNothingSnapped when not a single point
// could be projected, which the orchestrator treats as an alignment failure.
func SnapPoints(points []Point, path *ReferencePath, rl *RunLog) error {
	snapped := 0
	for i := range points {
		p := &points[i]
		if IsMissing(p.Latitude) || IsMissing(p.Longitude) {
			continue
		}
		station, offset := path.Snap(planarPoint(p))
		p.Station = station
		p.Offset = offset
		snapped++
	}
	if snapped == 0 {
		return ErrNothingSnapped
	}
	rl.Infof("snap: projected %d of %d points onto the centerline", snapped, len(points))
	if snapped < len(points) {
		rl.Warnf("snap: %d point(s) had no coordinates and received no station", len(points)-snapped)
	}
	return nil
}
