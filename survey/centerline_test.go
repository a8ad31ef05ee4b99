package survey

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func lineFC(lines ...orb.Geometry) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, g := range lines {
		fc.Append(geojson.NewFeature(g))
	}
	return fc
}

func TestAssembleCenterlineMergesTouchingSegments(t *testing.T) {
	// Two segments sharing the vertex (0.01, 0); they must merge into one
	// continuous path with no discontinuity warning.
	fc := lineFC(
		orb.LineString{{0, 0}, {0.01, 0}},
		orb.LineString{{0.01, 0}, {0.02, 0}},
	)

	rl := NewRunLog()
	path, err := AssembleCenterline(fc, 0, rl)
	if err != nil {
		t.Fatalf("AssembleCenterline() error = %v", err)
	}

	// 0.02 degrees along the equator is about 2226 m.
	if math.Abs(path.Length()-2226.4) > 2 {
		t.Errorf("merged path length = %.1f m, want ~2226.4 m", path.Length())
	}
	if rl.Contains("discontinuous") {
		t.Errorf("unexpected discontinuity warning; log = %v", rl.Messages())
	}
}

func TestAssembleCenterlineReversedSegment(t *testing.T) {
	// Second segment digitised in the opposite direction; the merge must
	// still join them at the shared endpoint.
	fc := lineFC(
		orb.LineString{{0, 0}, {0.01, 0}},
		orb.LineString{{0.02, 0}, {0.01, 0}},
	)

	path, err := AssembleCenterline(fc, 0, NewRunLog())
	if err != nil {
		t.Fatalf("AssembleCenterline() error = %v", err)
	}
	if math.Abs(path.Length()-2226.4) > 2 {
		t.Errorf("merged path length = %.1f m, want ~2226.4 m", path.Length())
	}
}

func TestAssembleCenterlineKeepsLongestComponent(t *testing.T) {
	// Disjoint components: a short stub far away from the main line. The
	// longest must win and the discontinuity must be logged.
	fc := lineFC(
		orb.LineString{{1, 1}, {1.001, 1}}, // ~111 m stub
		orb.LineString{{0, 0}, {0.02, 0}},  // ~2226 m main line
	)

	rl := NewRunLog()
	path, err := AssembleCenterline(fc, 0, rl)
	if err != nil {
		t.Fatalf("AssembleCenterline() error = %v", err)
	}
	if path.Length() < 2000 {
		t.Errorf("kept component length = %.1f m; the longest component was not selected", path.Length())
	}
	if !rl.Contains("discontinuous") {
		t.Errorf("run log missing discontinuity warning; log = %v", rl.Messages())
	}
}

func TestAssembleCenterlineMultiLineString(t *testing.T) {
	fc := lineFC(orb.MultiLineString{
		{{0, 0}, {0.01, 0}},
		{{0.01, 0}, {0.02, 0}},
	})

	path, err := AssembleCenterline(fc, 0, NewRunLog())
	if err != nil {
		t.Fatalf("AssembleCenterline() error = %v", err)
	}
	if math.Abs(path.Length()-2226.4) > 2 {
		t.Errorf("flattened path length = %.1f m, want ~2226.4 m", path.Length())
	}
}

func TestAssembleCenterlineNoValidGeometry(t *testing.T) {
	tests := []struct {
		name string
		fc   *geojson.FeatureCollection
	}{
		{name: "nil collection", fc: nil},
		{name: "empty collection", fc: geojson.NewFeatureCollection()},
		{name: "points only", fc: lineFC(orb.Point{0, 0})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AssembleCenterline(tt.fc, 0, NewRunLog())
			if !errors.Is(err, ErrNoValidGeometry) {
				t.Errorf("AssembleCenterline() error = %v, want ErrNoValidGeometry", err)
			}
		})
	}
}

func TestAssembleCenterlineSimplify(t *testing.T) {
	// A densified straight line collapses to its endpoints under any
	// positive tolerance.
	dense := make(orb.LineString, 101)
	for i := range dense {
		dense[i] = orb.Point{float64(i) * 0.0002, 0}
	}
	fc := lineFC(dense)

	rl := NewRunLog()
	path, err := AssembleCenterline(fc, 1.0, rl)
	if err != nil {
		t.Fatalf("AssembleCenterline() error = %v", err)
	}
	if len(path.Line) >= 101 {
		t.Errorf("simplification kept %d vertices, want fewer", len(path.Line))
	}
	if math.Abs(path.Length()-2226.4) > 2 {
		t.Errorf("simplified length = %.1f m, want ~2226.4 m", path.Length())
	}
	if !rl.Contains("simplified") {
		t.Errorf("run log missing simplification entry; log = %v", rl.Messages())
	}
}

func TestParseCenterlineGeoJSON(t *testing.T) {
	data := []byte(`{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[0,0],[0.01,0]]}}]}`)

	fc, err := ParseCenterlineGeoJSON(data)
	if err != nil {
		t.Fatalf("ParseCenterlineGeoJSON() error = %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("parsed %d features, want 1", len(fc.Features))
	}

	if _, err := ParseCenterlineGeoJSON([]byte("not json")); err == nil {
		t.Error("ParseCenterlineGeoJSON() accepted invalid input")
	}
}
