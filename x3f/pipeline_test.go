package x3f

import (
	"testing"

	"github.com/sigmaraw/x3fpipe/rawpipe"
)

// TestProcessBayerFrameScalesAndRepairs exercises the full core chain
// (CalculateBlackAreas -> ScaleBlackWhite/ScaleValues -> FixBadPixel)
// through the production entry point the CLI calls, not rawpipe's own
// unit tests.
func TestProcessBayerFrameScalesAndRepairs(t *testing.T) {
	const w, h = 8, 8
	frame := &RawFrame{
		Width: w, Height: h,
		UncroppedWidth: w, UncroppedHeight: h,
		CPP:   1,
		IsCFA: true,
		BlackLevel:  rawpipe.UnsetBlack,
		WhitePoint:  65535,
		BlackAreas:  nil,
		BadPixels:   []BadPixel{{X: 3, Y: 3}},
		ISO:         200,
		Data:        make([]uint16, w*h),
	}
	for i := range frame.Data {
		frame.Data[i] = 16384
	}
	// Give the flagged site (3,3) a 0 unlike its neighbours; FixBadPixel
	// must replace it with a non-zero value interpolated from them.
	frame.Data[3*w+3] = 0

	buf, err := ProcessBayerFrame(frame, nil, rawpipe.SingleThreaded{})
	if err != nil {
		t.Fatalf("ProcessBayerFrame: %v", err)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := buf.AtCropped(x, y, 0)
			if v > 65535 {
				t.Fatalf("pixel (%d,%d) = %d out of 16-bit range", x, y, v)
			}
		}
	}

	if got := buf.AtUncropped(3, 3, 0); got == 0 {
		t.Fatal("flagged pixel was not repaired")
	}
}

// TestProcessBayerFrameRejectsMultiTableLookup checks that an attached
// multi-table LookupTable surfaces rawpipe's Unimplemented error through
// the pipeline entry point.
func TestProcessBayerFrameRejectsMultiTableLookup(t *testing.T) {
	frame := &RawFrame{
		Width: 2, Height: 2,
		UncroppedWidth: 2, UncroppedHeight: 2,
		CPP:        1,
		BlackLevel: 0,
		WhitePoint: 65535,
		Data:       make([]uint16, 4),
		Table:      &rawpipe.LookupTable{NTables: 2},
	}

	_, err := ProcessBayerFrame(frame, nil, rawpipe.SingleThreaded{})
	if err == nil {
		t.Fatal("expected an error for ntables > 1")
	}
	if kind, ok := rawpipe.KindOf(err); !ok || kind != rawpipe.Unimplemented {
		t.Fatalf("KindOf(err) = %v, %v, want Unimplemented, true", kind, ok)
	}
}
