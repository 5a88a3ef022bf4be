// Package bitmap encodes packed-color pixel grids as uncompressed 24-bit BMP
// files.
package bitmap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var (
	ErrIO       = errors.New("bitmap I/O failed")
	ErrTooLarge = errors.New("bitmap too large")
)

// Source is a grid of packed colors: channel0 in the lowest-order byte,
// channel1 in the next one, channel2 in the third.
type Source interface {
	Width() int
	Height() int
	Cell(x, y int) uint32
}

// ChannelOrder selects how the three channels of a cell land on disk.
type ChannelOrder int

const (
	// OrderPacked writes the cell bytes low to high: channel0, channel1,
	// channel2. Viewers read the first byte of a pixel as blue, so channel0
	// shows up as blue.
	OrderPacked ChannelOrder = iota
	// OrderBGR writes channel2, channel1, channel0 so that channel0 shows up
	// as red.
	OrderBGR
)

func (o ChannelOrder) String() string {
	switch o {
	case OrderPacked:
		return "packed"
	case OrderBGR:
		return "bgr"
	}
	return fmt.Sprintf("ChannelOrder(%d)", int(o))
}

// ParseChannelOrder is the inverse of ChannelOrder.String.
func ParseChannelOrder(s string) (ChannelOrder, error) {
	switch s {
	case "packed", "":
		return OrderPacked, nil
	case "bgr":
		return OrderBGR, nil
	}
	return OrderPacked, fmt.Errorf("unsupported channel order: %s", s)
}

type Encoder struct {
	Order ChannelOrder
}

// Encode writes src with the default channel order.
func Encode(w io.Writer, src Source) (int64, error) {
	var enc Encoder
	return enc.Encode(w, src)
}

// Encode writes the header and then every row of src, bottom row first. It
// returns the number of bytes written, which equals the header's file size on
// success.
func (e *Encoder) Encode(w io.Writer, src Source) (int64, error) {
	width, height := src.Width(), src.Height()
	h, err := NewHeader(width, height)
	if err != nil {
		return 0, err
	}

	hdr, err := h.MarshalBinary()
	if err != nil {
		return 0, err
	}

	var count int64
	if err := writeBytes(w, hdr); err != nil {
		return count, fmt.Errorf("could not write header: %w: %w", ErrIO, err)
	}
	count += int64(len(hdr))

	row := make([]byte, RowStride(width))
	for y := height - 1; y >= 0; y-- {
		e.packRow(row, src, y, width)
		if err := writeBytes(w, row); err != nil {
			return count, fmt.Errorf("could not write row %d: %w: %w", y, ErrIO, err)
		}
		count += int64(len(row))
	}

	return count, nil
}

// packRow fills row with scanline y. Bytes past 3*width are padding and stay
// zero.
func (e *Encoder) packRow(row []byte, src Source, y, width int) {
	for x := range width {
		cell := src.Cell(x, y)
		i := x * 3
		switch e.Order {
		case OrderBGR:
			row[i] = byte(cell >> 16)
			row[i+1] = byte(cell >> 8)
			row[i+2] = byte(cell)
		default:
			row[i] = byte(cell)
			row[i+1] = byte(cell >> 8)
			row[i+2] = byte(cell >> 16)
		}
	}
	clear(row[width*3:])
}

// Save encodes src into the file at path. The file only appears once it has
// been fully written and flushed; on failure nothing is left behind.
func Save(path string, src Source, enc *Encoder) (err error) {
	if enc == nil {
		enc = &Encoder{}
	}
	logger := slog.Default().With("file", path)

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	outFile, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("could not create temporary file for %q: %w: %w", path, ErrIO, err)
	}
	tmpName := outFile.Name()
	done := false
	defer func() {
		if done {
			return
		}
		if closeErr := outFile.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			logger.Error("could not close temporary file", "name", tmpName, "error", closeErr)
		}
		if rmErr := os.Remove(tmpName); rmErr != nil {
			logger.Error("could not remove temporary file", "name", tmpName, "error", rmErr)
		}
	}()

	n, err := enc.Encode(outFile, src)
	if err != nil {
		return fmt.Errorf("could not encode %q: %w", path, err)
	}

	if err = outFile.Chmod(0o644); err != nil {
		return fmt.Errorf("could not set mode of %q: %w: %w", path, ErrIO, err)
	}
	if err = outFile.Sync(); err != nil {
		return fmt.Errorf("could not flush %q: %w: %w", path, ErrIO, err)
	}
	if err = outFile.Close(); err != nil {
		return fmt.Errorf("could not close %q: %w: %w", path, ErrIO, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("could not rename %q to %q: %w: %w", tmpName, path, ErrIO, err)
	}
	done = true

	logger.Debug("bitmap written", "bytes", n, "order", enc.Order)
	return nil
}

func writeBytes(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	} else if n != len(b) {
		return fmt.Errorf("wrote only %d/%d bytes: %w", n, len(b), io.ErrShortWrite)
	}

	return nil
}
