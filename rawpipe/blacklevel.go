package rawpipe

// CalculateBlackAreas computes BlackLevelSeparate[0..3], one per 2x2 CFA
// phase, from the masked strips in BlackAreas (§4.1). It is the direct
// port of rawspeed's RawImageDataU16::calculateBlackAreas: four 65536-bin
// histograms (one per phase), a per-phase median rank of totalPixels/8,
// and — for non-CFA images — collapse to the rounded mean of the four
// phases.
func (b *PixelBuffer) CalculateBlackAreas() error {
	var histogram [4][65536]uint32
	var totalPixels int64

	for _, area := range b.BlackAreas {
		size := area.Size &^ 1 // round down to even so each phase gets equal weight

		if !area.IsVertical {
			if int64(area.Offset)+int64(size) > int64(b.UncroppedDim.Y) {
				return newDecodeErrorf(InvalidBlackArea,
					"horizontal strip offset=%d size=%d exceeds uncropped height %d",
					area.Offset, size, b.UncroppedDim.Y)
			}
			for y := int(area.Offset); y < int(area.Offset+size); y++ {
				for x := int(b.MOffset.X); x < int(b.Dim.X)+int(b.MOffset.X); x++ {
					phase := (y&1)*2 + (x & 1)
					histogram[phase][b.AtUncropped(x, y, 0)]++
				}
			}
			totalPixels += int64(size) * int64(b.Dim.X)
		} else {
			if int64(area.Offset)+int64(size) > int64(b.UncroppedDim.X) {
				return newDecodeErrorf(InvalidBlackArea,
					"vertical strip offset=%d size=%d exceeds uncropped width %d",
					area.Offset, size, b.UncroppedDim.X)
			}
			for y := int(b.MOffset.Y); y < int(b.Dim.Y)+int(b.MOffset.Y); y++ {
				for x := int(area.Offset); x < int(area.Offset+size); x++ {
					phase := (y&1)*2 + (x & 1)
					histogram[phase][b.AtUncropped(x, y, 0)]++
				}
			}
			totalPixels += int64(size) * int64(b.Dim.Y)
		}
	}

	if totalPixels == 0 {
		for i := range b.BlackLevelSeparate {
			b.BlackLevelSeparate[i] = b.BlackLevel
		}
		return nil
	}

	// The /4 selects a per-phase quarter of strip samples, the /2 within
	// that the median; this exact rank is part of the contract.
	target := totalPixels / 8

	for phase := 0; phase < 4; phase++ {
		hist := &histogram[phase]
		accum := int64(hist[0])
		value := 0
		for accum <= target && value < 65535 {
			value++
			accum += int64(hist[value])
		}
		b.BlackLevelSeparate[phase] = int32(value)
	}

	if !b.IsCFA {
		var sum int32
		for _, v := range b.BlackLevelSeparate {
			sum += v
		}
		mean := (sum + 2) >> 2
		for i := range b.BlackLevelSeparate {
			b.BlackLevelSeparate[i] = mean
		}
	}

	return nil
}
