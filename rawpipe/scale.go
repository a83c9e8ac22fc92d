package rawpipe

import (
	"golang.org/x/sys/cpu"
)

// Logf is the logging hook the orchestration function calls during black
// estimation; it mirrors the source's writeLog(priority, fmt, args...).
// Priority follows the conventional DEBUG/INFO/WARN ordering; only INFO
// is ever used here. nil is a valid no-op logger.
type Logf func(priority string, format string, args ...interface{})

// ScaleOptions carries the inputs the orchestration function needs but
// that do not live on PixelBuffer itself: the worker hook and the values
// needed to format the estimation log line.
type ScaleOptions struct {
	// Worker partitions [0, H) and invokes ScaleValues on each slice; if
	// nil, DefaultWorker is used.
	Worker Worker
	// ISO is logged verbatim in the estimation line; it is metadata the
	// core does not itself know how to extract.
	ISO int
	// Log receives the estimation line; nil disables logging.
	Log Logf
}

// Worker partitions [0, n) into disjoint row ranges covering it exactly
// once, and invokes fn(y0, y1) on each — possibly concurrently. It is
// implemented by the embedder (§6); DefaultWorker provides a
// goroutine-per-core reference implementation.
type Worker interface {
	Run(n int, fn func(y0, y1 int))
}

const estimateSkipBorder = 250

// ScaleBlackWhite is the single-threaded orchestration entry point
// (§4.2). It estimates black/white when needed, takes the fast-path skip
// when scaling would be a no-op, calls the Analyzer if black levels are
// not yet separated, and dispatches ScaleValues over [0, Dim.Y) via
// opts.Worker.
func (b *PixelBuffer) ScaleBlackWhite(opts ScaleOptions) error {
	needEstimate := (len(b.BlackAreas) == 0 && b.BlackLevelSeparate[0] < 0 && b.BlackLevel < 0) ||
		b.WhitePoint >= EstimateWhite

	if needEstimate {
		lo, hi := 65536, 0
		gw := (int(b.Dim.X) - estimateSkipBorder) * b.CPP
		// The inner loop re-adds skipBorder to an already-skipBorder-based
		// column counter: this double-skips the left edge and narrows the
		// scanned region versus the nominal [skipBorder, W*cpp) range.
		// That is the upstream behavior and is preserved verbatim (see
		// DESIGN.md).
		for row := estimateSkipBorder; row < int(b.Dim.Y)-estimateSkipBorder; row++ {
			rowBase := (row+int(b.MOffset.Y))*b.Stride + int(b.MOffset.X)*b.CPP
			for col := estimateSkipBorder; col < gw; col++ {
				px := int(b.Data[rowBase+estimateSkipBorder+col])
				if px < lo {
					lo = px
				}
				if px > hi {
					hi = px
				}
			}
		}
		// An empty interior (image too small for the border) yields no
		// estimate; BlackLevel and WhitePoint then keep their values.
		if lo <= hi {
			if b.BlackLevel < 0 {
				b.BlackLevel = int32(lo)
			}
			if b.WhitePoint >= EstimateWhite {
				b.WhitePoint = int32(hi)
			}
		}
		if opts.Log != nil {
			opts.Log("INFO", "ISO:%d, Estimated black:%d, Estimated white: %d",
				opts.ISO, b.BlackLevel, b.WhitePoint)
		}
	}

	skip := (len(b.BlackAreas) == 0 && b.BlackLevel == 0 && b.WhitePoint == 65535 &&
		b.BlackLevelSeparate[0] < 0) || b.Dim.Area() <= 0
	if skip {
		return nil
	}

	if b.BlackLevelSeparate[0] < 0 {
		if err := b.CalculateBlackAreas(); err != nil {
			return err
		}
	}

	worker := opts.Worker
	if worker == nil {
		worker = DefaultWorker{}
	}
	worker.Run(int(b.Dim.Y), func(y0, y1 int) { b.ScaleValues(y0, y1) })
	return nil
}

// simdThreshold is the appScale cutoff above which the reference SIMD
// kernel's 10-bit fixed-point rounding diverges from the scalar 14-bit
// path (§4.2); above it the source falls back to scalar regardless of
// CPU capability, and so do we.
const simdThreshold = 63.0

// HasSIMD128 reports whether the running CPU exposes the 128-bit integer
// SIMD the source's vectorized scaleValues_SSE2 targets (SSE2 on amd64,
// ASIMD on arm64). It is exposed for diagnostics/logging ("would the
// reference implementation take the SIMD path here") — see the doc
// comment on ScaleValues for why this build does not ship a hand-rolled
// 128-bit emulation.
func HasSIMD128() bool {
	return cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD
}

// ScaleValues is the row-range kernel (§4.2): for y in [y0, y1), subtract
// the per-CFA-phase black level, multiply by the per-phase gain, add
// triangular dither if enabled, round, and clamp to 16 bits.
//
// The source gates an alternate SSE2 kernel on HasSIMD128 && appScale <
// simdThreshold, reproducing the scalar result via packed 16-bit
// saturating-subtract/multiply/pack instructions. That kernel's
// correctness rests entirely on matching a specific instruction
// sequence's rounding bit-for-bit — a property this package cannot
// verify without building and running it on real hardware (forbidden in
// this environment) — so it is not reproduced here. The scalar kernel
// below is the spec's normative implementation, and per §4.2 "implementations
// targeting architectures without 128-bit integer SIMD may ship the
// scalar kernel only", that is what this build does; HasSIMD128/appScale
// remain available for a future hardware-verified port.
func (b *PixelBuffer) ScaleValues(y0, y1 int) {
	depth := b.WhitePoint - b.BlackLevelSeparate[0]
	appScale := 65535.0 / float64(depth)
	b.scaleValuesPlain(y0, y1, appScale)
}

func (b *PixelBuffer) scaleValuesPlain(y0, y1 int, appScale float64) {
	fullScaleFp := int32(appScale * 4.0)
	halfScaleFp := int32(appScale * 4095.0)

	var mul, sub [4]int32
	for i := 0; i < 4; i++ {
		v := i
		if b.MOffset.X&1 != 0 {
			v ^= 1
		}
		if b.MOffset.Y&1 != 0 {
			v ^= 2
		}
		sub[i] = b.BlackLevelSeparate[v]
		mul[i] = int32(16384.0 * 65535.0 / float64(b.WhitePoint-b.BlackLevelSeparate[v]))
	}

	gw := int(b.Dim.X) * b.CPP
	for y := y0; y < y1; y++ {
		v := uint32(b.Dim.X) + uint32(y)*36969
		mulLocal := mul[2*(y&1) : 2*(y&1)+2]
		subLocal := sub[2*(y&1) : 2*(y&1)+2]

		// Samples within a cropped row are contiguous regardless of CPP,
		// so a single flat offset x in [0, W*cpp) walks the whole row —
		// matching the source's CroppedArray2DRef<uint16_t> row view.
		rowBase := (y+int(b.MOffset.Y))*b.Stride + int(b.MOffset.X)*b.CPP

		for x := 0; x < gw; x++ {
			var dither int32
			if b.DitherScale {
				v = 18000*(v&0xFFFF) + (v >> 16)
				dither = halfScaleFp - fullScaleFp*int32(v&2047)
			}

			idx := rowBase + x
			px := int32(b.Data[idx])
			out := ((px-subLocal[x&1])*mulLocal[x&1] + 8192 + dither) >> 14
			b.Data[idx] = clamp16(out)
		}
	}
}
