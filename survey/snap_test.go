package survey

import (
	"errors"
	"math"
	"testing"

	"github.com/paulmach/orb"
)

func planarPath(t *testing.T, line orb.LineString) *ReferencePath {
	t.Helper()
	path, err := NewReferencePath(line)
	if err != nil {
		t.Fatalf("NewReferencePath() error = %v", err)
	}
	return path
}

func TestSnap(t *testing.T) {
	// L-shaped path: (0,0) -> (100,0) -> (100,50), total length 150.
	path := planarPath(t, orb.LineString{{0, 0}, {100, 0}, {100, 50}})

	tests := []struct {
		name        string
		pt          orb.Point
		wantStation float64
		wantOffset  float64
	}{
		{name: "beside first segment", pt: orb.Point{25, 10}, wantStation: 25, wantOffset: 10},
		{name: "on the path", pt: orb.Point{100, 25}, wantStation: 125, wantOffset: 0},
		{name: "before the start", pt: orb.Point{-30, 0}, wantStation: 0, wantOffset: 30},
		{name: "past the end", pt: orb.Point{100, 80}, wantStation: 150, wantOffset: 30},
		{name: "at a vertex", pt: orb.Point{100, 0}, wantStation: 100, wantOffset: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			station, offset := path.Snap(tt.pt)
			if math.Abs(station-tt.wantStation) > 1e-9 {
				t.Errorf("station = %v, want %v", station, tt.wantStation)
			}
			if math.Abs(offset-tt.wantOffset) > 1e-9 {
				t.Errorf("offset = %v, want %v", offset, tt.wantOffset)
			}
			if offset < 0 {
				t.Error("offset is negative")
			}
		})
	}
}

func TestSnapTieResolvesToFirstCandidate(t *testing.T) {
	// A hairpin: the point sits exactly between the two parallel legs, so
	// both are 10 away. The first leg along the parameterization must win.
	path := planarPath(t, orb.LineString{{0, 0}, {100, 0}, {100, 20}, {0, 20}})

	station, offset := path.Snap(orb.Point{50, 10})
	if math.Abs(offset-10) > 1e-9 {
		t.Fatalf("offset = %v, want 10", offset)
	}
	if math.Abs(station-50) > 1e-9 {
		t.Errorf("station = %v, want 50 (first-encountered candidate)", station)
	}
}

func TestSnapPoints(t *testing.T) {
	// Path along the equator: planar x is ~111320*lon degrees, y ~0.
	nan := math.NaN()
	points := makePoints(
		[]float64{0, 550, 1100, 1650},
		[]float64{0, 0, 0, nan},
		[]float64{0, 0.005, 0.01, nan},
	)
	line := orb.LineString{{0, 0}, {2226.4, 0}}
	path := planarPath(t, line)

	rl := NewRunLog()
	if err := SnapPoints(points, path, rl); err != nil {
		t.Fatalf("SnapPoints() error = %v", err)
	}

	for i, want := range []float64{0, 556.6, 1113.2} {
		if math.Abs(points[i].Station-want) > 1.0 {
			t.Errorf("points[%d].Station = %.1f, want ~%.1f", i, points[i].Station, want)
		}
		if points[i].Offset < 0 {
			t.Errorf("points[%d].Offset = %v, want >= 0", i, points[i].Offset)
		}
	}
	if !IsMissing(points[3].Station) {
		t.Error("point without coordinates received a station")
	}
	if !rl.Contains("projected 3 of 4") {
		t.Errorf("run log missing snap summary; log = %v", rl.Messages())
	}
}

func TestSnapPointsNothingSnapped(t *testing.T) {
	nan := math.NaN()
	points := makePoints([]float64{0, 100}, []float64{nan, nan}, []float64{nan, nan})
	path := planarPath(t, orb.LineString{{0, 0}, {100, 0}})

	err := SnapPoints(points, path, NewRunLog())
	if !errors.Is(err, ErrNothingSnapped) {
		t.Fatalf("SnapPoints() error = %v, want ErrNothingSnapped", err)
	}
}
