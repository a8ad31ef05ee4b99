package survey

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// AssignManualStations assigns stations by linear interpolation between the
// configured start and end chainage, in row order. This is the fallback used
// when no centerline is available or geospatial alignment failed: it assumes
// the crew walked the rows at a uniform spacing over the known segment.
// Stations are rounded to millimetres.
func AssignManualStations(points []Point, cfg ManualConfig, rl *RunLog) {
	if len(points) == 0 {
		return
	}

	start, end := cfg.StartStation, cfg.EndStation
	if cfg.Reverse {
		start, end = end, start
	}

	if len(points) == 1 {
		points[0].Station = round3(start)
	} else {
		stations := make([]float64, len(points))
		floats.Span(stations, start, end)
		for i := range points {
			points[i].Station = round3(stations[i])
		}
	}
	rl.Infof("manual: assigned %d station(s) linearly from %.2f to %.2f m", len(points), start, end)

	if cfg.Jitter {
		jitterCoordinates(points, cfg.JitterSeed, rl)
	}
}

// jitterCoordinates nudges coordinates by a sub-metre uniform amount so that
// rows logged at an identical GPS fix do not stack on a map. The same draw is
// applied to both coordinates of a row, matching how stacked fixes separate
// along the survey direction. The generator is locally scoped and explicitly
// seeded: repeated and concurrent runs produce identical output.
func jitterCoordinates(points []Point, seed int64, rl *RunLog) {
	rng := rand.New(rand.NewSource(seed))
	nudged := 0
	for i := range points {
		u := rng.Float64()
		if IsMissing(points[i].Latitude) || IsMissing(points[i].Longitude) {
			continue
		}
		points[i].Latitude = round8(points[i].Latitude + u/1e6)
		points[i].Longitude = round8(points[i].Longitude + u/1e6)
		nudged++
	}
	if nudged > 0 {
		rl.Infof("manual: jittered %d coordinate pair(s) to separate stacked fixes (seed %d)", nudged, seed)
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round8(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}
