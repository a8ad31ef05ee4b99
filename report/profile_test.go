package report

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/cathodic/cipsline/survey"
)

func profilePoints(n int) []survey.Point {
	points := make([]survey.Point, n)
	for i := range points {
		points[i] = survey.Point{
			Index:      i,
			Station:    float64(i) * 10,
			OnVoltage:  -850 + 5*math.Sin(float64(i)/3),
			OffVoltage: -750 + 5*math.Cos(float64(i)/3),
			Latitude:   math.NaN(),
			Longitude:  math.NaN(),
			Offset:     math.NaN(),
		}
	}
	return points
}

func TestRenderToSVG(t *testing.T) {
	r := NewProfileRenderer(profilePoints(40))

	var buf bytes.Buffer
	if err := r.RenderToSVG(&buf); err != nil {
		t.Fatalf("RenderToSVG() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Error("output is not a complete SVG document")
	}
	if !strings.Contains(out, "path") {
		t.Error("output contains no paths")
	}
}

func TestRenderToPNG(t *testing.T) {
	r := NewProfileRenderer(profilePoints(40))
	r.Resolution = canvas.DPI(72) // keep the test image small

	var buf bytes.Buffer
	if err := r.RenderToPNG(&buf); err != nil {
		t.Fatalf("RenderToPNG() error = %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding output PNG: %v", err)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Error("decoded image is empty")
	}
}

func TestRenderSkipsMissingRows(t *testing.T) {
	points := profilePoints(10)
	points[4].OnVoltage = math.NaN()
	points[7].Station = math.NaN()

	var buf bytes.Buffer
	if err := NewProfileRenderer(points).RenderToSVG(&buf); err != nil {
		t.Fatalf("RenderToSVG() error = %v", err)
	}
}

func TestRenderNoPlottableRows(t *testing.T) {
	nan := math.NaN()
	points := []survey.Point{{Station: nan, OnVoltage: nan, OffVoltage: nan, Latitude: nan, Longitude: nan, Offset: nan}}

	var buf bytes.Buffer
	if err := NewProfileRenderer(points).RenderToSVG(&buf); err == nil {
		t.Error("RenderToSVG() accepted a table with nothing to plot")
	}
}

func TestTicks(t *testing.T) {
	got := ticks(0, 100, 5)
	if len(got) < 3 || got[0] < 0 || got[len(got)-1] > 100+1e-9 {
		t.Errorf("ticks(0, 100, 5) = %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i] <= got[i-1] {
			t.Fatalf("ticks not increasing: %v", got)
		}
	}
}
