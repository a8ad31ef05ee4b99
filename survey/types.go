package survey

import (
	"errors"
	"math"
)

// Missing numeric values travel through the pipeline as NaN so that a row is
// never dropped: the row count of a table is invariant across every stage.

// Point is one row of a close-interval survey. Fields start as parsed input
// and are corrected in place as the pipeline runs: coordinates may be imputed,
// voltages are rescaled and despiked, Station and Offset are filled in by the
// stationing stage.
type Point struct {
	Index          int     // ordinal position in the source table
	SensorDistance float64 // equipment odometry, metres; may be noisy or NaN
	Latitude       float64 // WGS84 degrees, NaN when the receiver had no fix
	Longitude      float64
	OnVoltage      float64 // pipe-to-soil potential, millivolts after cleaning
	OffVoltage     float64
	Comment        string
	Station        float64 // chainage along the centerline, metres; NaN until assigned
	Offset         float64 // cross-track distance from the centerline, metres; NaN in manual mode
}

// Table holds the survey rows in source order.
type Table struct {
	Points []Point
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Points) }

// AuxTable is a raw auxiliary annotation table (for example a DCP sheet).
// Column roles are resolved heuristically by the annotation merger, so the
// table is kept as untyped cells until then.
type AuxTable struct {
	Headers []string
	Rows    [][]string
}

// Annotation is one resolved auxiliary record: a chainage and a free-text
// label describing an anomaly or feature at that position.
type Annotation struct {
	Distance float64
	Label    string
}

// IsMissing reports whether a numeric cell carries no value.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Sentinel errors for terminal input conditions. Degraded-but-continuable
// conditions are logged as warnings instead and never surface as errors.
var (
	// ErrNoValidGeometry means the centerline input contained no usable
	// line component.
	ErrNoValidGeometry = errors.New("no valid line geometry in centerline input")

	// ErrNoCoordinates means a coordinate column is entirely missing, so
	// there is nothing to snap to the centerline.
	ErrNoCoordinates = errors.New("coordinate column entirely missing")

	// ErrMissingColumn means a required survey column could not be
	// identified in the source headers.
	ErrMissingColumn = errors.New("required column not found")

	// ErrEmptyTable means the survey table contained no rows.
	ErrEmptyTable = errors.New("survey table has no rows")

	// ErrNothingSnapped means no survey point could be projected onto the
	// centerline. The orchestrator treats this as an alignment failure and
	// falls back to manual stationing.
	ErrNothingSnapped = errors.New("no survey point could be snapped to the centerline")
)
