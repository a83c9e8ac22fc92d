package rawpipe

// FixBadPixel repairs one flagged pixel at uncropped coordinates (x, y)
// by a 4-way distance-weighted interpolation from the nearest unflagged
// sample in each cardinal direction (§4.3). It is a direct port of
// rawspeed's RawImageDataU16::fixBadPixel, including its recursive
// per-component repair for cpp>1 — the source notes weights "could be
// shared" across components but are recomputed from scratch each time;
// we keep that. The search distances depend only on BadPixelMap, so every
// component gets the same weights either way.
func (b *PixelBuffer) FixBadPixel(x, y, component int) {
	// values[i] < 0 means "not found"; order is left, right, up, down.
	values := [4]int32{-1, -1, -1, -1}
	var dist [4]int32

	step := 1
	if b.IsCFA {
		step = 2
	}

	// Left
	for xf := x - step; xf >= 0 && values[0] < 0; xf -= step {
		if !b.IsBadPixel(xf, y) {
			values[0] = int32(b.AtUncropped(xf, y, component))
			dist[0] = int32(x - xf)
		}
	}
	// Right
	for xf := x + step; xf < int(b.UncroppedDim.X) && values[1] < 0; xf += step {
		if !b.IsBadPixel(xf, y) {
			values[1] = int32(b.AtUncropped(xf, y, component))
			dist[1] = int32(xf - x)
		}
	}
	// Up
	for yf := y - step; yf >= 0 && values[2] < 0; yf -= step {
		if !b.IsBadPixel(x, yf) {
			values[2] = int32(b.AtUncropped(x, yf, component))
			dist[2] = int32(y - yf)
		}
	}
	// Down
	for yf := y + step; yf < int(b.UncroppedDim.Y) && values[3] < 0; yf += step {
		if !b.IsBadPixel(x, yf) {
			values[3] = int32(b.AtUncropped(x, yf, component))
			dist[3] = int32(yf - y)
		}
	}

	var weight [4]int32
	shifts := int32(7)

	if totalDistX := dist[0] + dist[1]; totalDistX > 0 {
		if dist[0] != 0 {
			weight[0] = (totalDistX - dist[0]) * 256 / totalDistX
		}
		weight[1] = 256 - weight[0]
		shifts++
	}
	if totalDistY := dist[2] + dist[3]; totalDistY > 0 {
		if dist[2] != 0 {
			weight[2] = (totalDistY - dist[2]) * 256 / totalDistY
		}
		weight[3] = 256 - weight[2]
		shifts++
	}

	var sum int32
	for i := 0; i < 4; i++ {
		if values[i] >= 0 {
			sum += values[i] * weight[i]
		}
	}
	b.SetAtUncropped(x, y, component, clamp16(sum>>shifts))

	if b.CPP > 1 && component == 0 {
		for c := 1; c < b.CPP; c++ {
			b.FixBadPixel(x, y, c)
		}
	}
}
