package survey

import "gonum.org/v1/gonum/stat"

// minDirectionSamples is the minimum number of (sensor distance, station)
// pairs required before the traversal-direction check is trusted.
const minDirectionSamples = 6

// ResolveDirection detects whether the centerline was stationed opposite to
// the direction the crew walked it, using the Pearson correlation between
// sensor distance and raw station over the rows where both are present. A
// negative correlation flips every station to pathLength − station. This is
// a single global decision applied uniformly to the dataset, never a per-row
// one. With fewer than minDirectionSamples pairs the check is skipped and
// logged as low confidence.
//
// The operation is idempotent: after a flip the correlation is positive, so
// a second pass leaves the stations alone.
func ResolveDirection(points []Point, pathLength float64, rl *RunLog) {
	var dists, stations []float64
	for i := range points {
		if IsMissing(points[i].SensorDistance) || IsMissing(points[i].Station) {
			continue
		}
		dists = append(dists, points[i].SensorDistance)
		stations = append(stations, points[i].Station)
	}

	if len(dists) < minDirectionSamples {
		rl.Warnf("direction: only %d paired distance/station values; skipping direction check (low confidence)",
			len(dists))
		return
	}

	r := stat.Correlation(dists, stations, nil)
	if r >= 0 {
		rl.Infof("direction: station series agrees with sensor distance (r=%.2f)", r)
		return
	}

	for i := range points {
		if !IsMissing(points[i].Station) {
			points[i].Station = pathLength - points[i].Station
		}
	}
	rl.Infof("direction: station series anti-correlated with sensor distance (r=%.2f); reversed stationing along the %.1f m path",
		r, pathLength)
}
