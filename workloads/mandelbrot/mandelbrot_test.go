package mandelbrot

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type MandelbrotTestSuite struct {
	suite.Suite
}

func TestMandelbrotTestSuite(t *testing.T) {
	suite.Run(t, new(MandelbrotTestSuite))
}

func (ts *MandelbrotTestSuite) TestEveryPixelWrittenExactlyOnce() {
	img, err := Render(4)
	ts.Require().NoError(err)
	ts.Len(img.Pixels, Width*Height)

	// The origin of the complex plane (the pixel at (dx, dy)) is in the
	// Mandelbrot set and never escapes, so it always renders as
	// toRGB(Iterations) (0xf4fff4, near-white).
	ts.Equal(toRGB(Iterations), img.Pixels[dy*img.Width+dx])

	// toRGB never returns 0 for an iteration count >= 1, so a pixel left at
	// the zero value (black) was never rendered by any leaf tile.
	for i, p := range img.Pixels {
		if p == 0 {
			ts.Failf("pixel not rendered", "pixel %d (x=%d, y=%d) is still zero", i, i%img.Width, i/img.Width)
			break
		}
	}
}

func (ts *MandelbrotTestSuite) TestMatchesSerialReference() {
	parallel, err := Render(4)
	ts.Require().NoError(err)

	serial := RenderSerial()

	ts.Equal(serial.Pixels, parallel.Pixels)
}

func (ts *MandelbrotTestSuite) TestDeterministicAcrossRepeatedRuns() {
	first, err := Render(2)
	ts.Require().NoError(err)

	second, err := Render(8)
	ts.Require().NoError(err)

	ts.Equal(first.Pixels, second.Pixels)
}

func (ts *MandelbrotTestSuite) TestToRGBBands() {
	ts.Equal(uint32(0x0000ff), toRGB(0))      // n<128: r=0,g=0,b=255
	ts.Equal(uint32(0xffffff), toRGB(2000))   // n>=1024: white
}

func (ts *MandelbrotTestSuite) TestSingleThreadRendersFullFrame() {
	img, err := Render(1)
	ts.Require().NoError(err)
	ts.Len(img.Pixels, Width*Height)
}
