package survey

import (
	"github.com/paulmach/orb/geojson"
)

// Mode identifies how stations were assigned for a run.
type Mode int

const (
	// ModeGeospatial means stations came from snapping GPS fixes onto the
	// centerline.
	ModeGeospatial Mode = iota
	// ModeManual means stations were assigned linearly between the
	// configured start and end chainage.
	ModeManual
)

// String returns the display name of the mode.
func (m Mode) String() string {
	if m == ModeGeospatial {
		return "geospatial"
	}
	return "manual"
}

// Input bundles everything a run consumes. Survey is required; Annotations
// and Centerline are optional. The engine does not know or care how any of
// them were read.
type Input struct {
	Survey      *Table
	Annotations *AuxTable
	Centerline  *geojson.FeatureCollection
}

// Result is the outcome of a run. Points has exactly as many rows as the
// input survey table. HasOffsets is true only when geospatial alignment ran,
// in which case every snapped point carries a cross-track Offset. Log is
// always populated, including on terminal failure, so the caller can show
// the user what happened.
type Result struct {
	Points     []Point
	Mode       Mode
	HasOffsets bool
	Log        *RunLog
}

// Pipeline runs the full alignment-and-cleaning sequence over one survey
// table. It is a batch engine: one table per Run call, stages strictly in
// sequence, no retained state between calls.
type Pipeline struct {
	cfg *Config
}

// NewPipeline creates a pipeline with an already-validated configuration.
// A nil cfg uses the defaults.
func NewPipeline(cfg *Config) *Pipeline {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Pipeline{cfg: cfg}
}

// Run executes the pipeline. Stationing strategy is selected by input: with
// a centerline present the geospatial path runs (normalize coordinates,
// assemble, snap, resolve direction); without one, or when assembly or
// snapping fails, stations are assigned manually and the fallback is logged.
// Both strategies then share the signal cleaner, the annotation merger and
// the comment normalizer.
//
// On terminal failure the returned Result still carries the accumulated log
// (with Points nil) alongside the error.
func (pl *Pipeline) Run(in Input) (*Result, error) {
	rl := NewRunLog()
	fail := func(err error) (*Result, error) {
		rl.Errorf("pipeline: %v", err)
		return &Result{Log: rl}, err
	}

	if in.Survey == nil || in.Survey.Len() == 0 {
		return fail(ErrEmptyTable)
	}
	points := in.Survey.Points

	mode := ModeManual
	hasOffsets := false

	if in.Centerline != nil {
		// All-missing coordinates with a centerline on hand is a terminal
		// input error: there is nothing to snap.
		if err := NormalizeCoordinates(points, rl); err != nil {
			return fail(err)
		}
		path, err := AssembleCenterline(in.Centerline, pl.cfg.Centerline.SimplifyTolerance, rl)
		if err == nil {
			err = SnapPoints(points, path, rl)
		}
		if err != nil {
			rl.Warnf("pipeline: centerline alignment failed (%v); falling back to manual stationing", err)
		} else {
			ResolveDirection(points, path.Length(), rl)
			mode = ModeGeospatial
			hasOffsets = true
		}
	} else {
		rl.Infof("pipeline: no centerline supplied; using manual station assignment")
		// Coordinates are optional in manual mode; a failed fit only means
		// the gaps stay gaps.
		if err := NormalizeCoordinates(points, rl); err != nil {
			rl.Warnf("pipeline: %v; coordinates left missing", err)
		}
	}

	if mode == ModeManual {
		AssignManualStations(points, pl.cfg.Manual, rl)
	}

	CleanVoltages(points, pl.cfg.Cleaning, rl)

	if in.Annotations != nil {
		MergeAnnotations(points, in.Annotations, pl.cfg.Annotation.Tolerance, rl)
	}
	NormalizeComments(points)

	rl.Infof("pipeline: completed in %s mode (%d rows)", mode, len(points))
	return &Result{Points: points, Mode: mode, HasOffsets: hasOffsets, Log: rl}, nil
}

// RunTable is a convenience wrapper for callers that only have a survey
// table and want default configuration.
func RunTable(table *Table) (*Result, error) {
	return NewPipeline(nil).Run(Input{Survey: table})
}
