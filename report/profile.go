// Package report turns a pipeline result into the artifacts engineers
// actually hand around: the processed CSV table and a potential-profile
// chart of both voltage channels against station.
package report

import (
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/cathodic/cipsline/survey"
)

// Series colors follow the established report convention: On potential in
// deep blue, Off potential in red.
var (
	onColor  = color.RGBA{R: 0x00, G: 0x4E, B: 0x98, A: 0xFF}
	offColor = color.RGBA{R: 0xB8, G: 0x23, B: 0x3E, A: 0xFF}
	gridGray = color.RGBA{R: 0xC8, G: 0xC8, B: 0xC8, A: 0xFF}
)

// ProfileRenderer draws On/Off millivolt profiles against station as vector
// graphics, to SVG or rasterized PNG.
type ProfileRenderer struct {
	Points      []survey.Point
	Width       float64 // canvas width in mm
	Height      float64 // canvas height in mm
	Padding     float64 // margin around the plot area in mm
	Resolution  canvas.Resolution
	TargetTicks int // approximate grid line count per axis
}

// NewProfileRenderer creates a renderer with report defaults.
func NewProfileRenderer(points []survey.Point) *ProfileRenderer {
	return &ProfileRenderer{
		Points:      points,
		Width:       280,
		Height:      160,
		Padding:     18,
		Resolution:  canvas.DPI(300),
		TargetTicks: 8,
	}
}

// canvasRenderer is the subset both the svg and rasterizer backends implement.
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderToSVG writes the profile chart as an SVG to the provided writer.
func (r *ProfileRenderer) RenderToSVG(w io.Writer) error {
	b, ok := r.bounds()
	if !ok {
		return fmt.Errorf("profile: no plottable rows (need station and at least one voltage)")
	}
	svgRenderer := svg.New(w, r.Width, r.Height, nil)
	r.renderToCanvas(svgRenderer, b)
	return svgRenderer.Close()
}

// RenderToPNG writes the profile chart as a PNG, with axis tick labels, to
// the provided writer.
func (r *ProfileRenderer) RenderToPNG(w io.Writer) error {
	b, ok := r.bounds()
	if !ok {
		return fmt.Errorf("profile: no plottable rows (need station and at least one voltage)")
	}
	rast := rasterizer.New(r.Width, r.Height, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, b)
	r.drawTickLabels(rast, b)
	return png.Encode(w, rast)
}

// plotBounds is the data-space window of the chart.
type plotBounds struct {
	sMin, sMax float64 // station
	vMin, vMax float64 // millivolts
}

func (r *ProfileRenderer) bounds() (plotBounds, bool) {
	b := plotBounds{sMin: math.Inf(1), sMax: math.Inf(-1), vMin: math.Inf(1), vMax: math.Inf(-1)}
	found := false
	for i := range r.Points {
		p := &r.Points[i]
		if survey.IsMissing(p.Station) {
			continue
		}
		for _, v := range []float64{p.OnVoltage, p.OffVoltage} {
			if survey.IsMissing(v) {
				continue
			}
			b.sMin = math.Min(b.sMin, p.Station)
			b.sMax = math.Max(b.sMax, p.Station)
			b.vMin = math.Min(b.vMin, v)
			b.vMax = math.Max(b.vMax, v)
			found = true
		}
	}
	if !found || b.sMax == b.sMin {
		return b, false
	}
	if b.vMax == b.vMin {
		b.vMin -= 1
		b.vMax += 1
	}
	return b, true
}

// toCanvas maps data coordinates into the padded plot area. Canvas
// coordinates are bottom-left origin with y up, so higher (less negative)
// potentials plot higher with no flipping.
func (r *ProfileRenderer) toCanvas(b plotBounds, station, mv float64) (float64, float64) {
	x := r.Padding + (station-b.sMin)/(b.sMax-b.sMin)*(r.Width-2*r.Padding)
	y := r.Padding + (mv-b.vMin)/(b.vMax-b.vMin)*(r.Height-2*r.Padding)
	return x, y
}

func (r *ProfileRenderer) renderToCanvas(renderer canvasRenderer, b plotBounds) {
	// White background.
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(r.Width, r.Height), bgStyle, canvas.Identity)

	// Dashed grid at nice tick positions.
	gridStyle := canvas.DefaultStyle
	gridStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	gridStyle.Stroke = canvas.Paint{Color: gridGray}
	gridStyle.StrokeWidth = 0.2
	gridStyle.Dashes = []float64{1.0, 1.0}

	for _, s := range ticks(b.sMin, b.sMax, r.TargetTicks) {
		gp := &canvas.Path{}
		x1, y1 := r.toCanvas(b, s, b.vMin)
		x2, y2 := r.toCanvas(b, s, b.vMax)
		gp.MoveTo(x1, y1)
		gp.LineTo(x2, y2)
		renderer.RenderPath(gp, gridStyle, canvas.Identity)
	}
	for _, v := range ticks(b.vMin, b.vMax, r.TargetTicks) {
		gp := &canvas.Path{}
		x1, y1 := r.toCanvas(b, b.sMin, v)
		x2, y2 := r.toCanvas(b, b.sMax, v)
		gp.MoveTo(x1, y1)
		gp.LineTo(x2, y2)
		renderer.RenderPath(gp, gridStyle, canvas.Identity)
	}

	// Plot frame.
	frameStyle := canvas.DefaultStyle
	frameStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	frameStyle.Stroke = canvas.Paint{Color: canvas.Black}
	frameStyle.StrokeWidth = 0.35
	frame := canvas.Rectangle(r.Width-2*r.Padding, r.Height-2*r.Padding)
	frame = frame.Translate(r.Padding, r.Padding)
	renderer.RenderPath(frame, frameStyle, canvas.Identity)

	// The two series.
	r.strokeSeries(renderer, b, func(p *survey.Point) float64 { return p.OnVoltage }, onColor)
	r.strokeSeries(renderer, b, func(p *survey.Point) float64 { return p.OffVoltage }, offColor)
}

// strokeSeries draws one channel as a polyline, breaking the line across
// rows where the channel or station is missing.
func (r *ProfileRenderer) strokeSeries(renderer canvasRenderer, b plotBounds, value func(*survey.Point) float64, c color.RGBA) {
	style := canvas.DefaultStyle
	style.Fill = canvas.Paint{Color: canvas.Transparent}
	style.Stroke = canvas.Paint{Color: c}
	style.StrokeWidth = 0.5

	var cp *canvas.Path
	flush := func() {
		if cp != nil {
			renderer.RenderPath(cp, style, canvas.Identity)
			cp = nil
		}
	}
	for i := range r.Points {
		p := &r.Points[i]
		v := value(p)
		if survey.IsMissing(p.Station) || survey.IsMissing(v) {
			flush()
			continue
		}
		x, y := r.toCanvas(b, p.Station, v)
		if cp == nil {
			cp = &canvas.Path{}
			cp.MoveTo(x, y)
		} else {
			cp.LineTo(x, y)
		}
	}
	flush()
}

// ticks returns round-valued tick positions covering [min, max] with roughly
// the requested count.
func ticks(min, max float64, target int) []float64 {
	if target < 2 {
		target = 2
	}
	span := max - min
	step := math.Pow(10, math.Floor(math.Log10(span/float64(target))))
	for _, m := range []float64{1, 2, 5, 10} {
		if span/(step*m) <= float64(target) {
			step *= m
			break
		}
	}
	var out []float64
	for v := math.Ceil(min/step) * step; v <= max+step/1e6; v += step {
		out = append(out, v)
	}
	return out
}
