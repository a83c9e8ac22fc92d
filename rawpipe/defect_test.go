package rawpipe

import "testing"

// TestFixBadPixelNearestNeighborWeighting mirrors a flagged pixel inside a
// 1x9 non-CFA row with values [10,20,30,40,99,50,60,70,80], flagged at
// index 4. Non-CFA buffers search adjacent samples (step 1), so the
// nearest left/right neighbors are 40 (distance 1) and 50 (distance 1);
// weighting them equally gives (40*128+50*128)>>8 = 45 — not 40, which
// would only follow from averaging the more distant 30/50 pair.
func TestFixBadPixelNearestNeighborWeighting(t *testing.T) {
	values := []uint16{10, 20, 30, 40, 99, 50, 60, 70, 80}
	b := NewU16(Point2D{X: int32(len(values)), Y: 1}, 1)
	b.SetCrop(Point2D{}, Point2D{X: int32(len(values)), Y: 1})
	b.IsCFA = false
	for x, v := range values {
		b.SetAtUncropped(x, 0, 0, v)
	}
	b.SetBadPixel(4, 0, true)

	b.FixBadPixel(4, 0, 0)

	if got := b.AtUncropped(4, 0, 0); got != 45 {
		t.Fatalf("repaired value = %d, want 45", got)
	}
}

// TestFixBadPixelCFASkipsAlternatePhase checks that a CFA buffer searches
// every-other sample (step 2), so the immediate non-matching-phase
// neighbor is skipped.
func TestFixBadPixelCFASkipsAlternatePhase(t *testing.T) {
	values := []uint16{10, 999, 30, 999, 99, 999, 60, 999, 80}
	b := NewU16(Point2D{X: int32(len(values)), Y: 1}, 1)
	b.SetCrop(Point2D{}, Point2D{X: int32(len(values)), Y: 1})
	b.IsCFA = true
	for x, v := range values {
		b.SetAtUncropped(x, 0, 0, v)
	}
	b.SetBadPixel(4, 0, true)

	b.FixBadPixel(4, 0, 0)

	// nearest same-phase neighbors are index 2 (30, distance 2) and
	// index 6 (60, distance 2): (30*128+60*128)>>8 = 45
	if got := b.AtUncropped(4, 0, 0); got != 45 {
		t.Fatalf("repaired value = %d, want 45", got)
	}
}

// TestFixBadPixelNoNeighborsYieldsZero covers the degenerate case (§
// invariant: no unflagged neighbor in any direction): a 1x1 buffer has no
// neighbors to search in any of the four directions, so every weight is
// zero and the repaired value is 0.
func TestFixBadPixelNoNeighborsYieldsZero(t *testing.T) {
	b := NewU16(Point2D{X: 1, Y: 1}, 1)
	b.SetCrop(Point2D{}, Point2D{X: 1, Y: 1})
	b.IsCFA = false
	b.SetAtUncropped(0, 0, 0, 123)
	b.SetBadPixel(0, 0, true)

	b.FixBadPixel(0, 0, 0)

	if got := b.AtUncropped(0, 0, 0); got != 0 {
		t.Fatalf("repaired value = %d, want 0", got)
	}
}

// TestFixBadPixelRepairsAllComponents checks the cpp>1 recursion: fixing
// component 0 must also repair every other component of the same pixel.
func TestFixBadPixelRepairsAllComponents(t *testing.T) {
	const cpp = 3
	b := NewU16(Point2D{X: 5, Y: 1}, cpp)
	b.SetCrop(Point2D{}, Point2D{X: 5, Y: 1})
	b.IsCFA = false
	for x := 0; x < 5; x++ {
		for c := 0; c < cpp; c++ {
			b.SetAtUncropped(x, 0, c, uint16(100*(c+1)+x))
		}
	}
	b.SetBadPixel(2, 0, true)
	for c := 0; c < cpp; c++ {
		b.SetAtUncropped(2, 0, c, 9999)
	}

	b.FixBadPixel(2, 0, 0)

	for c := 0; c < cpp; c++ {
		if got := b.AtUncropped(2, 0, c); got == 9999 {
			t.Fatalf("component %d was not repaired", c)
		}
	}
}
