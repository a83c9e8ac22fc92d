package rawpipe

// LookupTable is the value lookup table descriptor consulted by DoLookup
// (§4.5). Only a single table is supported; NTables > 1 is rejected with
// Unimplemented, matching the source's "table lookup with multiple
// components not implemented".
//
// When Dither is false, Plain holds 65536 direct output values.
// When Dither is true, Packed holds 65536 entries, each packing a base
// value in its low 16 bits and a delta in its high 16 bits — the output
// linearly interpolates between adjacent entries with a triangular
// distribution driven by a per-row PRNG.
type LookupTable struct {
	NTables int
	Dither  bool
	Plain   []uint16
	Packed  []uint32
}

// DoLookup is the row-range kernel (§4.5): it maps every sample in rows
// [y0, y1) through the attached table. It operates over the full
// uncropped row width (Wu*cpp), not the cropped visible area, matching
// the source's getDataUncropped(0, y) row walk.
func (b *PixelBuffer) DoLookup(y0, y1 int) error {
	t := b.Table
	if t.NTables != 1 {
		return newDecodeErrorf(Unimplemented, "table lookup with %d tables not implemented", t.NTables)
	}

	gw := int(b.UncroppedDim.X) * b.CPP

	if !t.Dither {
		for y := y0; y < y1; y++ {
			rowBase := y * b.Stride
			for x := 0; x < gw; x++ {
				idx := rowBase + x
				b.Data[idx] = t.Plain[b.Data[idx]]
			}
		}
		return nil
	}

	for y := y0; y < y1; y++ {
		v := (uint32(b.UncroppedDim.X) + uint32(y)*13) ^ 0x45694584
		rowBase := y * b.Stride
		for x := 0; x < gw; x++ {
			idx := rowBase + x
			p := b.Data[idx]
			packed := t.Packed[p]
			base := packed & 0xffff
			delta := packed >> 16

			v = 15700*(v&0xFFFF) + (v >> 16)
			out := base + ((delta*(v&2047) + 1024) >> 12)
			b.Data[idx] = clamp16(int32(out))
		}
	}
	return nil
}
