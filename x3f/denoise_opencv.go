package x3f

import (
	"gocv.io/x/gocv"
)

// toMat16 copies a row-strided uint16 buffer into a freshly allocated
// contiguous gocv.Mat. Callers must Close() the returned Mat.
func toMat16(data []uint16, rows, cols, channels, stride int) gocv.Mat {
	matType := gocv.MatTypeCV16UC1
	if channels == 3 {
		matType = gocv.MatTypeCV16UC3
	}
	m := gocv.NewMatWithSize(rows, cols, matType)
	buf, err := m.DataPtrUint16()
	if err != nil {
		return m
	}
	rowWidth := cols * channels
	for r := 0; r < rows; r++ {
		src := data[r*stride : r*stride+rowWidth]
		copy(buf[r*rowWidth:(r+1)*rowWidth], src)
	}
	return m
}

// fromMat16 copies a contiguous Mat back into a row-strided uint16 buffer.
func fromMat16(m gocv.Mat, data []uint16, rows, cols, channels, stride int) {
	buf, err := m.DataPtrUint16()
	if err != nil {
		return
	}
	rowWidth := cols * channels
	for r := 0; r < rows; r++ {
		dst := data[r*stride : r*stride+rowWidth]
		copy(dst, buf[r*rowWidth:(r+1)*rowWidth])
	}
}

// eightBitView converts a 16-bit Mat to 8-bit by a >>8 scale. OpenCV's
// denoising kernel is defined over CV_8U; running it on a tone-mapped
// 8-bit proxy and scaling the result back up is the standard way to
// apply it to higher bit depths.
func eightBitView(src gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	src.ConvertToWithParams(&dst, gocv.MatTypeCV8U, 1.0/256.0, 0)
	return dst
}

func sixteenBitView(src gocv.Mat, like gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	src.ConvertToWithParams(&dst, like.Type(), 256.0, 0)
	return dst
}

// DenoiseWithOpenCV runs OpenCV's non-local-means denoiser (colored for
// channels==3, grayscale otherwise) over a row-strided buffer,
// tone-mapping to 8 bits for the kernel and back afterward. It is an
// optional step the CLI applies to the rawpipe-processed output; the
// core's own defect handling (rawpipe.FixBadPixel) is a distinct,
// targeted repair and is not replaced by this general denoise.
func DenoiseWithOpenCV(data []uint16, rows, cols, channels, rowStride int, h float64) {
	if len(data) == 0 {
		return
	}

	srcMat := toMat16(data, rows, cols, channels, rowStride)
	defer srcMat.Close()

	view := eightBitView(srcMat)
	defer view.Close()

	denoised := gocv.NewMat()
	defer denoised.Close()

	if channels == 3 {
		gocv.FastNlMeansDenoisingColoredWithParams(view, &denoised, float32(h), float32(h), 7, 21)
	} else {
		gocv.FastNlMeansDenoisingWithParams(view, &denoised, float32(h), 7, 21)
	}

	restored := sixteenBitView(denoised, srcMat)
	defer restored.Close()
	fromMat16(restored, data, rows, cols, channels, rowStride)
}
