package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// drawText renders text onto an image at the specified pixel position.
func drawText(img draw.Image, x, y int, text string, c color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// drawTickLabels annotates a rasterized profile with station labels along the
// bottom edge and millivolt labels along the left edge. Labels are a raster
// concern only: the SVG output stays plain vector paths.
func (r *ProfileRenderer) drawTickLabels(img draw.Image, b plotBounds) {
	dpmm := r.Resolution.DPMM()
	black := color.RGBA{A: 0xFF}

	// Canvas mm (bottom-left origin) to image pixels (top-left origin).
	toPixel := func(xmm, ymm float64) (int, int) {
		return int(xmm * dpmm), int((r.Height - ymm) * dpmm)
	}

	for _, s := range ticks(b.sMin, b.sMax, r.TargetTicks) {
		xmm, _ := r.toCanvas(b, s, b.vMin)
		px, py := toPixel(xmm, r.Padding-4)
		drawText(img, px-10, py, fmt.Sprintf("%.0f", s), black)
	}
	for _, v := range ticks(b.vMin, b.vMax, r.TargetTicks) {
		_, ymm := r.toCanvas(b, b.sMin, v)
		px, py := toPixel(2, ymm)
		drawText(img, px, py+4, fmt.Sprintf("%.0f", v), black)
	}
}
