package x3f

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sigmaraw/x3fpipe/rawpipe"
)

func TestRawFrameRoundTrip(t *testing.T) {
	want := &RawFrame{
		Width: 4, Height: 4,
		UncroppedWidth: 6, UncroppedHeight: 6,
		OffsetX: 1, OffsetY: 1,
		CPP:   1,
		IsCFA: true,
		BlackLevel: rawpipe.UnsetBlack,
		WhitePoint: rawpipe.EstimateWhite,
		BlackAreas: []rawpipe.BlackArea{
			{IsVertical: false, Offset: 0, Size: 2},
		},
		BadPixels: []BadPixel{{X: 2, Y: 2}},
		ISO:       100,
		Data:      make([]uint16, 6*6),
	}
	for i := range want.Data {
		want.Data[i] = uint16(i * 7)
	}

	var buf bytes.Buffer
	if err := EncodeRawFrame(&buf, want); err != nil {
		t.Fatalf("EncodeRawFrame: %v", err)
	}

	got, err := DecodeRawFrame(&buf)
	if err != nil {
		t.Fatalf("DecodeRawFrame: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRawFrameRejectsBadMagic(t *testing.T) {
	_, err := DecodeRawFrame(bytes.NewReader([]byte{0, 0, 0, 0}))
	if err == nil {
		t.Fatal("expected an error for a short/invalid header")
	}
}
