// Package canvas holds the in-memory pixel grid the circles are drawn into.
//
// Every cell is a packed color: channel0 in the lowest-order byte, channel1 in
// the next one and channel2 in the third. The high-order byte is never used.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

var (
	ErrAllocation  = errors.New("canvas allocation failed")
	ErrOutOfBounds = errors.New("point outside canvas")
)

// maxCells keeps the encoded 24-bit file addressable by the 32-bit size
// fields of the bitmap header: a padded row never takes more than 4 bytes
// per pixel, plus 54 bytes of header.
const maxCells = (math.MaxInt32 - 54) / 4

type Canvas struct {
	width  int
	height int
	// cells holds one packed color per pixel. The pixel at (x, y) is
	// cells[x + y*width].
	cells []uint32
}

var (
	_ image.Image = &Canvas{}
)

// New allocates a zero-filled (black) canvas.
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions %dx%d: %w", width, height, ErrAllocation)
	}
	if width > maxCells || height > maxCells/width {
		return nil, fmt.Errorf("%dx%d pixels do not fit a bitmap: %w", width, height, ErrAllocation)
	}

	return &Canvas{
		width:  width,
		height: height,
		cells:  make([]uint32, width*height),
	}, nil
}

func (c *Canvas) Width() int {
	return c.width
}

func (c *Canvas) Height() int {
	return c.height
}

// Cells exposes the backing storage in row-major order.
func (c *Canvas) Cells() []uint32 {
	return c.cells
}

// Set stores a packed color at (x, y). The point must lie inside the canvas:
// no bounds checking happens here, callers own that precondition.
func (c *Canvas) Set(x, y int, c0, c1, c2 uint8) {
	c.cells[Index(x, y, c.width)] = Pack(c0, c1, c2)
}

// SetChecked is Set with bounds checking.
func (c *Canvas) SetChecked(x, y int, c0, c1, c2 uint8) error {
	if !c.contains(x, y) {
		return fmt.Errorf("(%d,%d) on %dx%d canvas: %w", x, y, c.width, c.height, ErrOutOfBounds)
	}
	c.Set(x, y, c0, c1, c2)
	return nil
}

// Cell returns the packed color at (x, y). Same precondition as Set.
func (c *Canvas) Cell(x, y int) uint32 {
	return c.cells[Index(x, y, c.width)]
}

// Release drops the backing storage. The canvas must not be used afterwards.
func (c *Canvas) Release() {
	c.cells = nil
	c.width, c.height = 0, 0
}

func (c *Canvas) ColorModel() color.Model {
	return color.RGBAModel
}

func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// At maps channel0, channel1 and channel2 to red, green and blue.
func (c *Canvas) At(x, y int) color.Color {
	if !c.contains(x, y) {
		return color.RGBA{}
	}
	c0, c1, c2 := Unpack(c.Cell(x, y))
	return color.RGBA{R: c0, G: c1, B: c2, A: 0xff}
}

func (c *Canvas) contains(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// Index converts a grid coordinate into a linear cell index.
func Index(x, y, width int) int {
	return x + y*width
}

func Pack(c0, c1, c2 uint8) uint32 {
	return uint32(c0) | uint32(c1)<<8 | uint32(c2)<<16
}

func Unpack(v uint32) (c0, c1, c2 uint8) {
	return uint8(v), uint8(v >> 8), uint8(v >> 16)
}
