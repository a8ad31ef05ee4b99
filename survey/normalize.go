package survey

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// minFitSamples is the minimum number of rows carrying both a coordinate and
// a sensor distance before a regression fit is trusted for imputation.
const minFitSamples = 3

// NormalizeCoordinates fills missing latitude and longitude values by fitting
// coordinate = a·distance + b over the rows where both are present and
// predicting at the missing rows' sensor distances. The two coordinates are
// handled independently. Along a pipeline right-of-way the coordinate-versus-
// chainage relationship is locally linear, which is all the receiver dropouts
// this repairs ever span.
//
// Returns ErrNoCoordinates (wrapped, naming the coordinate) when a coordinate
// column has no values at all. Too few samples to fit is a warning: the
// missing values are left missing and the run continues.
func NormalizeCoordinates(points []Point, rl *RunLog) error {
	if err := normalizeCoordinate(points, "latitude",
		func(p *Point) *float64 { return &p.Latitude }, rl); err != nil {
		return err
	}
	return normalizeCoordinate(points, "longitude",
		func(p *Point) *float64 { return &p.Longitude }, rl)
}

func normalizeCoordinate(points []Point, name string, field func(*Point) *float64, rl *RunLog) error {
	var xs, ys []float64
	present := 0
	missing := 0
	for i := range points {
		v := *field(&points[i])
		if IsMissing(v) {
			missing++
			continue
		}
		present++
		if !IsMissing(points[i].SensorDistance) {
			xs = append(xs, points[i].SensorDistance)
			ys = append(ys, v)
		}
	}

	if present == 0 {
		return fmt.Errorf("%w: %s", ErrNoCoordinates, name)
	}
	if missing == 0 {
		return nil
	}
	if len(xs) < minFitSamples {
		rl.Warnf("normalize: only %d rows usable to fit %s against sensor distance; leaving %d values missing",
			len(xs), name, missing)
		return nil
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	imputed := 0
	for i := range points {
		v := field(&points[i])
		if !IsMissing(*v) || IsMissing(points[i].SensorDistance) {
			continue
		}
		*v = alpha + beta*points[i].SensorDistance
		imputed++
	}
	rl.Infof("normalize: imputed %d missing %s value(s) by linear fit against sensor distance", imputed, name)
	if imputed < missing {
		rl.Warnf("normalize: %d %s value(s) could not be imputed (sensor distance also missing)",
			missing-imputed, name)
	}
	return nil
}
