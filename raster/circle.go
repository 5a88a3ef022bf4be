// Package raster draws circle outlines with the integer midpoint
// (Bresenham) algorithm.
package raster

import (
	"log/slog"

	"bullseye/canvas"
)

// Plotter receives the points of a circle outline.
type Plotter interface {
	Set(x, y int, c0, c1, c2 uint8)
}

// Walk runs the decision-parameter walk for a circle of the given radius and
// calls fn with the local (x, y) of every emission, in order. Each loop
// iteration emits twice: once before and once after the step.
func Walk(radius int, fn func(x, y int)) {
	x, y := 0, radius
	d := 3 - 2*radius
	for y >= x {
		fn(x, y)
		x++
		if d > 0 {
			y--
			d = d + 4*(x-y) + 10
		} else {
			d = d + 4*x + 6
		}
		fn(x, y)
	}
}

// StepColor derives the color of one emission from its local coordinates.
// The uint8 conversion is x mod 256 for negative values too.
func StepColor(x, y int) (c0, c1, c2 uint8) {
	return uint8(x), uint8(y), 255 - uint8(x)
}

// DrawCircle plots the 8-way symmetric outline of a circle centered on
// (cx, cy). Nothing is clipped: cx±radius and cy±radius must be valid for p.
func DrawCircle(p Plotter, cx, cy, radius int) {
	Walk(radius, func(x, y int) {
		plot8(p, cx, cy, x, y)
	})
}

// plot8 writes all eight octant points, including coincident ones.
func plot8(p Plotter, cx, cy, x, y int) {
	c0, c1, c2 := StepColor(x, y)
	p.Set(cx+x, cy+y, c0, c1, c2)
	p.Set(cx-x, cy+y, c0, c1, c2)
	p.Set(cx+x, cy-y, c0, c1, c2)
	p.Set(cx-x, cy-y, c0, c1, c2)
	p.Set(cx+y, cy+x, c0, c1, c2)
	p.Set(cx-y, cy+x, c0, c1, c2)
	p.Set(cx+y, cy-x, c0, c1, c2)
	p.Set(cx-y, cy-x, c0, c1, c2)
}

type clipper struct {
	p             Plotter
	width, height int
}

func (c clipper) Set(x, y int, c0, c1, c2 uint8) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.p.Set(x, y, c0, c1, c2)
}

// Clip wraps p so that points outside [0,width)x[0,height) are dropped.
func Clip(p Plotter, width, height int) Plotter {
	return clipper{p: p, width: width, height: height}
}

// StartRadius is the largest ring of a bullseye: half the longer side, minus one.
func StartRadius(width, height int) int {
	return max(width, height)/2 - 1
}

// Fits reports whether a circle stays inside a width x height area. A circle
// of radius min(width, height)/2 on the midpoint only fits when that minimum
// side is odd: on an even side the far edge lands on cx+radius == width.
func Fits(width, height, cx, cy, radius int) bool {
	return cx-radius >= 0 && cx+radius < width && cy-radius >= 0 && cy+radius < height
}

// Bullseye draws concentric rings centered on the canvas, from StartRadius
// down to 1. On non-square canvases the outer rings leave the canvas and are
// clipped.
func Bullseye(c *canvas.Canvas) {
	width, height := c.Width(), c.Height()
	cx, cy := width/2, height/2
	start := StartRadius(width, height)

	var p Plotter = c
	if start > 0 && !Fits(width, height, cx, cy, start) {
		slog.Debug("clipping outer rings", "width", width, "height", height, "radius", start)
		p = Clip(c, width, height)
	}

	for r := start; r > 0; r-- {
		DrawCircle(p, cx, cy, r)
	}
}
