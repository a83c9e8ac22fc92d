package x3f

import "github.com/sigmaraw/x3fpipe/rawpipe"

// ProcessBayerFrame runs the full post-processing core (spec.md §2 data
// flow: Analyzer -> Scaler -> Interpolator -> Lookup) over one decoded
// RawFrame and returns the mutated buffer. It is the pipeline's only
// caller of rawpipe's row-range kernels and orchestration entry points;
// the worker argument is the embedder-supplied hook spec.md §6 calls
// startWorker (nil selects rawpipe.DefaultWorker).
func ProcessBayerFrame(frame *RawFrame, logger *Logger, worker rawpipe.Worker) (*rawpipe.PixelBuffer, error) {
	buf := rawpipe.NewU16(rawpipe.Point2D{X: int32(frame.UncroppedWidth), Y: int32(frame.UncroppedHeight)}, frame.CPP)
	buf.SetCrop(
		rawpipe.Point2D{X: int32(frame.OffsetX), Y: int32(frame.OffsetY)},
		rawpipe.Point2D{X: int32(frame.Width), Y: int32(frame.Height)},
	)
	buf.IsCFA = frame.IsCFA
	buf.BlackLevel = frame.BlackLevel
	buf.WhitePoint = frame.WhitePoint
	buf.BlackAreas = frame.BlackAreas
	buf.Table = frame.Table
	rowLen := int(frame.UncroppedWidth) * frame.CPP
	for y := 0; y < int(frame.UncroppedHeight); y++ {
		copy(buf.Data[y*buf.Stride:y*buf.Stride+rowLen], frame.Data[y*rowLen:(y+1)*rowLen])
	}

	for _, bp := range frame.BadPixels {
		buf.SetBadPixel(bp.X, bp.Y, true)
	}

	if worker == nil {
		worker = rawpipe.DefaultWorker{}
	}

	var logf rawpipe.Logf
	if logger != nil {
		logf = logger.Logf
	}

	// Analyzer (CalculateBlackAreas) runs inside ScaleBlackWhite when
	// BlackLevelSeparate hasn't already been supplied; ScaleValues is
	// then dispatched over [0, Dim.Y) via worker.
	if err := buf.ScaleBlackWhite(rawpipe.ScaleOptions{Worker: worker, ISO: frame.ISO, Log: logf}); err != nil {
		return nil, err
	}

	// Interpolator: every flagged site is repaired once, in uncropped
	// coordinates; FixBadPixel recurses into components 1..cpp-1 itself.
	for _, bp := range frame.BadPixels {
		buf.FixBadPixel(bp.X, bp.Y, 0)
	}

	// Lookup Applicator, if a table is attached. DoLookup validates
	// NTables before touching any row, so probing it with an empty
	// range surfaces Unimplemented without doing partial work ahead of
	// the real dispatch.
	if buf.Table != nil {
		if err := buf.DoLookup(0, 0); err != nil {
			return nil, err
		}
		worker.Run(int(buf.UncroppedDim.Y), func(y0, y1 int) {
			_ = buf.DoLookup(y0, y1)
		})
	}

	return buf, nil
}
