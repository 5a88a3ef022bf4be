// Package palette exports the ring colors of a bullseye as RIFF PAL files.
package palette

import (
	"image/color"

	"bullseye/canvas"
	"bullseye/raster"
)

// Steps collects the distinct colors a circle of the given radius is drawn
// with, in the order the walk first emits them. Channel0 maps to red,
// channel1 to green and channel2 to blue.
func Steps(radius int) color.Palette {
	var pal color.Palette
	seen := make(map[uint32]struct{})
	raster.Walk(radius, func(x, y int) {
		c0, c1, c2 := raster.StepColor(x, y)
		key := canvas.Pack(c0, c1, c2)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		pal = append(pal, color.RGBA{R: c0, G: c1, B: c2, A: 0xff})
	})
	return pal
}

// Bullseye returns one palette per ring, outermost first, for rings from
// start down to 1.
func Bullseye(start int) []color.Palette {
	if start < 1 {
		return nil
	}
	pals := make([]color.Palette, 0, start)
	for r := start; r > 0; r-- {
		pals = append(pals, Steps(r))
	}
	return pals
}
