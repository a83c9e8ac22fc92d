// Package output holds the pipeline's debug/consumer-facing writers.
// Re-encoding into camera-native deliverable formats (DNG, TIFF, JPEG,
// HEIF) is out of scope per spec.md's "lossless/lossy re-encoding"
// non-goal; PPM/PGM (netpbm) is kept as the one simple, dependency-free
// format for inspecting a processed rawpipe.PixelBuffer directly.
package output

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sigmaraw/x3fpipe/rawpipe"
)

// ExportPPM writes the cropped, visible region of buf as an ASCII netpbm
// image: P3 (RGB) when CPP==3, P2 (grayscale) for CPP==1. Buffers with
// CPP==2 are written as P2 over component 0 only, since netpbm has no
// two-channel form.
func ExportPPM(buf *rawpipe.PixelBuffer, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	width, height := int(buf.Dim.X), int(buf.Dim.Y)

	if buf.CPP == 3 {
		fmt.Fprintf(w, "P3\n%d %d\n65535\n", width, height)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r := buf.AtCropped(x, y, 0)
				g := buf.AtCropped(x, y, 1)
				b := buf.AtCropped(x, y, 2)
				fmt.Fprintf(w, "%d %d %d\n", r, g, b)
			}
		}
		return w.Flush()
	}

	fmt.Fprintf(w, "P2\n%d %d\n65535\n", width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fmt.Fprintf(w, "%d\n", buf.AtCropped(x, y, 0))
		}
	}
	return w.Flush()
}
