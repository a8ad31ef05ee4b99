package survey

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
	"github.com/paulmach/orb/simplify"
)

// endpointJoinTolerance is the maximum planar gap (metres) between two
// polyline endpoints for them to be considered the same vertex when merging
// centerline components. Digitised centerlines commonly split at tile or
// sheet boundaries with sub-centimetre gaps.
const endpointJoinTolerance = 0.05

// ReferencePath is the assembled centerline in planar coordinates: an
// ordered vertex sequence with precomputed cumulative arc length. It is
// read-only after construction and may be shared freely.
type ReferencePath struct {
	Line orb.LineString
	cum  []float64 // cumulative arc length at each vertex; cum[0] == 0
}

// NewReferencePath builds a path from a planar polyline with at least two
// vertices.
func NewReferencePath(line orb.LineString) (*ReferencePath, error) {
	if len(line) < 2 {
		return nil, ErrNoValidGeometry
	}
	cum := make([]float64, len(line))
	for i := 1; i < len(line); i++ {
		cum[i] = cum[i-1] + planar.Distance(line[i-1], line[i])
	}
	if cum[len(cum)-1] <= 0 {
		return nil, ErrNoValidGeometry
	}
	return &ReferencePath{Line: line, cum: cum}, nil
}

// Length returns the total arc length of the path in metres.
func (p *ReferencePath) Length() float64 {
	return p.cum[len(p.cum)-1]
}

// ParseCenterlineGeoJSON decodes a GeoJSON FeatureCollection. GeoJSON
// coordinates are WGS84 by definition; inputs without a declared reference
// system are treated the same way.
func ParseCenterlineGeoJSON(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing centerline GeoJSON: %w", err)
	}
	return fc, nil
}

// AssembleCenterline turns an arbitrary collection of line features into one
// ReferencePath in planar coordinates:
//
//  1. every component is reprojected to the planar system,
//  2. multi-part geometries are flattened into simple polylines,
//  3. polylines are merged end-to-end where their endpoints coincide,
//  4. if disjoint components remain, the longest is kept and a warning is
//     recorded that the reference geometry was discontinuous.
//
// A positive simplifyTol additionally runs Douglas-Peucker simplification on
// the merged line, which bounds snap cost on heavily densified centerlines.
// Returns ErrNoValidGeometry when no usable line component exists.
func AssembleCenterline(fc *geojson.FeatureCollection, simplifyTol float64, rl *RunLog) (*ReferencePath, error) {
	if fc == nil {
		return nil, ErrNoValidGeometry
	}

	var lines []orb.LineString
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		lines = append(lines, collectLines(f.Geometry)...)
	}
	if len(lines) == 0 {
		return nil, ErrNoValidGeometry
	}

	planarLines := make([]orb.LineString, 0, len(lines))
	for _, ls := range lines {
		pls := project.LineString(ls.Clone(), project.WGS84.ToMercator)
		if len(pls) >= 2 {
			planarLines = append(planarLines, pls)
		}
	}
	if len(planarLines) == 0 {
		return nil, ErrNoValidGeometry
	}

	merged := mergeLines(planarLines)
	best := merged[0]
	if len(merged) > 1 {
		bestLen := planar.Length(best)
		for _, ls := range merged[1:] {
			if l := planar.Length(ls); l > bestLen {
				best, bestLen = ls, l
			}
		}
		rl.Warnf("centerline: reference geometry is discontinuous (%d components); keeping the longest (%.1f m)",
			len(merged), bestLen)
	}

	if simplifyTol > 0 {
		before := len(best)
		best = simplify.DouglasPeucker(simplifyTol).Simplify(best.Clone()).(orb.LineString)
		rl.Infof("centerline: simplified %d vertices to %d (tolerance %.2f m)", before, len(best), simplifyTol)
	}

	path, err := NewReferencePath(best)
	if err != nil {
		return nil, err
	}
	rl.Infof("centerline: assembled reference path of %.1f m (%d vertices)", path.Length(), len(path.Line))
	return path, nil
}

// collectLines flattens a geometry into simple polylines, descending into
// multi-part geometries and collections. Non-line geometries are ignored.
func collectLines(g orb.Geometry) []orb.LineString {
	switch geom := g.(type) {
	case orb.LineString:
		if len(geom) >= 2 {
			return []orb.LineString{geom}
		}
	case orb.MultiLineString:
		var out []orb.LineString
		for _, ls := range geom {
			if len(ls) >= 2 {
				out = append(out, ls)
			}
		}
		return out
	case orb.Collection:
		var out []orb.LineString
		for _, sub := range geom {
			out = append(out, collectLines(sub)...)
		}
		return out
	}
	return nil
}

// mergeLines repeatedly joins polylines whose endpoints coincide within
// endpointJoinTolerance until no further join is possible. The scan order is
// fixed by input order, so the result is deterministic.
func mergeLines(lines []orb.LineString) []orb.LineString {
	out := make([]orb.LineString, len(lines))
	copy(out, lines)

	for {
		joined := false
	scan:
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if m, ok := joinPair(out[i], out[j]); ok {
					out[i] = m
					out = append(out[:j], out[j+1:]...)
					joined = true
					break scan
				}
			}
		}
		if !joined {
			return out
		}
	}
}

// joinPair attempts to concatenate two polylines at a shared endpoint,
// trying all four endpoint pairings.
func joinPair(a, b orb.LineString) (orb.LineString, bool) {
	touches := func(p, q orb.Point) bool {
		return planar.Distance(p, q) <= endpointJoinTolerance
	}
	switch {
	case touches(a[len(a)-1], b[0]):
		return append(a.Clone(), b[1:]...), true
	case touches(a[len(a)-1], b[len(b)-1]):
		return append(a.Clone(), reverseLine(b)[1:]...), true
	case touches(a[0], b[len(b)-1]):
		return append(b.Clone(), a[1:]...), true
	case touches(a[0], b[0]):
		return append(reverseLine(b), a[1:]...), true
	}
	return nil, false
}

func reverseLine(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		out[len(ls)-1-i] = p
	}
	return out
}
