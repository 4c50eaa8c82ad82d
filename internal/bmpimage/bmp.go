// Package bmpimage writes a packed RGB framebuffer to a BMP file. It is an
// external collaborator of the scheduler in the same sense the original
// C project's image writer was: the scheduler and its workloads know
// nothing about file formats.
package bmpimage

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40
)

// Write encodes pixels (row-major, top row first, packed 0xRRGGBB per
// entry) as an uncompressed 24-bit BMP and writes it to path.
func Write(path string, pixels []uint32, width, height int) error {
	if len(pixels) != width*height {
		return fmt.Errorf("bmpimage: pixel count %d does not match %dx%d", len(pixels), width, height)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bmpimage: create %s: %w", path, err)
	}
	defer f.Close()

	return encode(f, pixels, width, height)
}

// rowStride is the BMP-mandated 4-byte row alignment for 24-bit pixels.
func rowStride(width int) int {
	return (width*3 + 3) &^ 3
}

func encode(w io.Writer, pixels []uint32, width, height int) error {
	stride := rowStride(width)
	pixelDataSize := stride * height
	fileSize := fileHeaderSize + infoHeaderSize + pixelDataSize

	buf := make([]byte, fileHeaderSize+infoHeaderSize)

	// BITMAPFILEHEADER
	buf[0], buf[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(buf[2:], uint32(fileSize))
	binary.LittleEndian.PutUint32(buf[10:], uint32(fileHeaderSize+infoHeaderSize))

	// BITMAPINFOHEADER
	binary.LittleEndian.PutUint32(buf[14:], uint32(infoHeaderSize))
	binary.LittleEndian.PutUint32(buf[18:], uint32(width))
	binary.LittleEndian.PutUint32(buf[22:], uint32(height))
	binary.LittleEndian.PutUint16(buf[26:], 1)  // planes
	binary.LittleEndian.PutUint16(buf[28:], 24) // bits per pixel
	binary.LittleEndian.PutUint32(buf[34:], uint32(pixelDataSize))

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("bmpimage: write headers: %w", err)
	}

	row := make([]byte, stride)
	for y := height - 1; y >= 0; y-- { // BMP rows are bottom-to-top
		for x := 0; x < width; x++ {
			rgb := pixels[y*width+x]
			off := x * 3
			row[off] = byte(rgb)         // B
			row[off+1] = byte(rgb >> 8)  // G
			row[off+2] = byte(rgb >> 16) // R
		}
		for i := width * 3; i < stride; i++ {
			row[i] = 0
		}
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("bmpimage: write row %d: %w", y, err)
		}
	}
	return nil
}
