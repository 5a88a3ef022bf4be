package bitmap

import (
	"encoding/binary"
	"fmt"
	"math"
)

/*
BITMAPFILEHEADER followed by BITMAPINFOHEADER, packed:

	offset size field
	     0    2 magic "BM"
	     2    4 file size
	     6    4 reserved
	    10    4 pixel data offset
	    14    4 info header size
	    18    4 width
	    22    4 height
	    26    2 planes
	    28    2 bits per pixel
	    30    4 compression
	    34    4 image size
	    38    4 horizontal resolution
	    42    4 vertical resolution
	    46    4 colors used
	    50    4 important colors
*/

const (
	HeaderSize     = 54
	InfoHeaderSize = 40
	BitCount       = 24
)

var magic = [2]byte{'B', 'M'}

// Header is the metadata block in front of the pixel rows.
type Header struct {
	FileSize        uint32
	Reserved        uint32
	ImageOffset     uint32
	InfoSize        uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	ImageSize       uint32
	XPixelsPerMeter int32
	YPixelsPerMeter int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// RowStride is the number of bytes a 24-bit scanline takes on disk, padded to
// a 4-byte boundary.
func RowStride(width int) int {
	return ((width*BitCount + 31) / 32) * 4
}

func ImageSize(width, height int) int {
	return RowStride(width) * height
}

func FileSize(width, height int) int {
	return ImageSize(width, height) + HeaderSize
}

// NewHeader derives the header of a width x height 24-bit bitmap.
func NewHeader(width, height int) (Header, error) {
	if width <= 0 || height <= 0 {
		return Header{}, fmt.Errorf("invalid dimensions %dx%d", width, height)
	}
	if width > math.MaxInt32 || height > math.MaxInt32 ||
		RowStride(width) > (math.MaxInt32-HeaderSize)/height {
		return Header{}, fmt.Errorf("%dx%d pixels: %w", width, height, ErrTooLarge)
	}

	imageSize := ImageSize(width, height)
	return Header{
		FileSize:    uint32(imageSize + HeaderSize),
		ImageOffset: HeaderSize,
		InfoSize:    InfoHeaderSize,
		Width:       int32(width),
		Height:      int32(height),
		Planes:      1,
		BitCount:    BitCount,
		ImageSize:   uint32(imageSize),
	}, nil
}

// AppendBinary appends the 54 header bytes, field by field, little-endian.
func (h Header) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, magic[:]...)
	b = binary.LittleEndian.AppendUint32(b, h.FileSize)
	b = binary.LittleEndian.AppendUint32(b, h.Reserved)
	b = binary.LittleEndian.AppendUint32(b, h.ImageOffset)
	b = binary.LittleEndian.AppendUint32(b, h.InfoSize)
	b = binary.LittleEndian.AppendUint32(b, uint32(h.Width))
	b = binary.LittleEndian.AppendUint32(b, uint32(h.Height))
	b = binary.LittleEndian.AppendUint16(b, h.Planes)
	b = binary.LittleEndian.AppendUint16(b, h.BitCount)
	b = binary.LittleEndian.AppendUint32(b, h.Compression)
	b = binary.LittleEndian.AppendUint32(b, h.ImageSize)
	b = binary.LittleEndian.AppendUint32(b, uint32(h.XPixelsPerMeter))
	b = binary.LittleEndian.AppendUint32(b, uint32(h.YPixelsPerMeter))
	b = binary.LittleEndian.AppendUint32(b, h.ColorsUsed)
	b = binary.LittleEndian.AppendUint32(b, h.ColorsImportant)
	return b, nil
}

func (h Header) MarshalBinary() ([]byte, error) {
	return h.AppendBinary(make([]byte, 0, HeaderSize))
}
