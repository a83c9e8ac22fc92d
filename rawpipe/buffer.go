// Package rawpipe implements the mosaic-aware post-processing core shared
// by every X3F decoding path: black-level estimation from masked sensor
// strips, fixed-point black/white rescaling with triangular dither,
// defective-pixel repair, and dithered value-table lookup.
//
// The fixed-point constants and PRNG recurrences here are load-bearing:
// they exist to match a vectorized reference implementation bit-for-bit,
// not merely to "be fast". Do not simplify them.
package rawpipe

import "image"

// Point2D is an integer 2-D point or extent, following the teacher's
// x3f.FileHeader convention of separate column/row fields rather than a
// packed struct from the image package.
type Point2D struct {
	X, Y int32
}

// Area returns X*Y, used to detect an empty visible region.
func (p Point2D) Area() int64 { return int64(p.X) * int64(p.Y) }

// BlackArea describes one masked strip of the sensor used to measure
// black level. Offset/Size are in uncropped pixel coordinates.
type BlackArea struct {
	IsVertical bool
	Offset     uint32
	Size       uint32
}

// alignment is the minimum row-pitch alignment, in bytes, required of
// PixelBuffer.Data; it matches the 16-byte alignment of 128-bit SSE2
// loads and stores.
const alignment = 16

// UnsetBlack marks BlackLevel / BlackLevelSeparate entries as "not yet
// measured or supplied" (§3).
const UnsetBlack = -1

// EstimateWhite is the sentinel meaning "whitePoint unknown, estimate it".
const EstimateWhite = 65536

// PixelBuffer is an owned, aligned 2-D array of u16 samples plus the
// geometry, CFA-phase, and black/white calibration state the rest of the
// package operates on. It is created by the decoder, populated by the
// metadata layer, and then mutated in place by Scaler, Interpolator, and
// Lookup, in that order; after all three it is read-only.
type PixelBuffer struct {
	// Dim is the cropped, visible area. UncroppedDim is the full sensor
	// area including masked borders.
	Dim, UncroppedDim Point2D

	// CPP is components per pixel: 1 for Bayer/monochrome raw data, more
	// for already-demosaicked or multi-plane buffers.
	CPP int

	// Stride is the number of u16 samples between the start of
	// consecutive rows; always >= UncroppedDim.X*CPP and a multiple of
	// alignment/2.
	Stride int

	// MOffset is the origin of the visible area inside the uncropped
	// buffer; its parity fixes CFA phase.
	MOffset Point2D

	// IsCFA reports whether the image obeys a 2x2 mosaic phase
	// structure. Non-CFA images collapse per-phase black levels to
	// their rounded mean.
	IsCFA bool

	// Data is contiguous row-major uncropped storage.
	Data []uint16

	// BlackLevel is the scalar black level; UnsetBlack means
	// "unset/estimate".
	BlackLevel int32

	// BlackLevelSeparate holds one black level per CFA phase, in scan
	// order top-left, top-right, bottom-left, bottom-right. A negative
	// entry means unset.
	BlackLevelSeparate [4]int32

	// WhitePoint is the saturation value; >= EstimateWhite means
	// "estimate it".
	WhitePoint int32

	// BlackAreas lists the masked strips available for black-level
	// estimation.
	BlackAreas []BlackArea

	// DitherScale enables triangular dither in the Scaler. The Lookup
	// applicator dithers according to Table.Dither instead.
	DitherScale bool

	// BadPixelMap is a bitmap, 1 bit per uncropped pixel, packed
	// LSB-first in each byte, row stride BadPixelMapPitch. A set bit
	// flags a defective sample.
	BadPixelMap      []byte
	BadPixelMapPitch int

	// Table is the optional sensor value lookup table (§4.5); nil means
	// no lookup stage runs.
	Table *LookupTable
}

// NewU16 allocates an owned PixelBuffer with the given (initially
// uncropped) dimensions and components per pixel. Black level and white
// point start unset/estimate; callers crop with SetCrop and attach
// BlackAreas/BadPixelMap/Table before running the pipeline.
func NewU16(dim Point2D, cpp int) *PixelBuffer {
	b := &PixelBuffer{}
	b.init(dim, cpp)
	return b
}

// New is the zero-dimension default constructor, matching rawspeed's
// parameterless RawImageDataU16{} construction path used before a real
// size is known (e.g. while only the header has been parsed).
func New() *PixelBuffer {
	b := &PixelBuffer{}
	b.init(Point2D{}, 1)
	return b
}

func (b *PixelBuffer) init(dim Point2D, cpp int) {
	if cpp <= 0 {
		cpp = 1
	}
	b.Dim = dim
	b.UncroppedDim = dim
	b.CPP = cpp
	b.MOffset = Point2D{}
	b.IsCFA = true
	b.BlackLevel = UnsetBlack
	b.BlackLevelSeparate = [4]int32{UnsetBlack, UnsetBlack, UnsetBlack, UnsetBlack}
	b.WhitePoint = EstimateWhite

	samplesPerRow := int(dim.X) * cpp
	alignSamples := alignment / 2
	if rem := samplesPerRow % alignSamples; rem != 0 {
		samplesPerRow += alignSamples - rem
	}
	b.Stride = samplesPerRow
	if dim.Y > 0 && b.Stride > 0 {
		b.Data = make([]uint16, b.Stride*int(dim.Y))
	}
}

// SetCrop installs the visible-area geometry: offset is the CFA-phase
// fixing origin inside the uncropped buffer, dim is the cropped size.
// Panics on an invariant violation (0<=ox, 0<=oy, ox+W<=Wu, oy+H<=Hu) —
// these are construction-time programmer errors, not decode-time faults.
func (b *PixelBuffer) SetCrop(offset, dim Point2D) {
	if offset.X < 0 || offset.Y < 0 ||
		offset.X+dim.X > b.UncroppedDim.X || offset.Y+dim.Y > b.UncroppedDim.Y {
		panic("rawpipe: crop region outside uncropped buffer")
	}
	b.MOffset = offset
	b.Dim = dim
}

// index returns the sample offset of component c of the uncropped pixel
// at (x, y).
func (b *PixelBuffer) index(x, y, c int) int {
	return y*b.Stride + x*b.CPP + c
}

// AtUncropped returns component c of the uncropped pixel at (x, y).
func (b *PixelBuffer) AtUncropped(x, y, c int) uint16 {
	return b.Data[b.index(x, y, c)]
}

// SetAtUncropped writes component c of the uncropped pixel at (x, y).
func (b *PixelBuffer) SetAtUncropped(x, y, c int, v uint16) {
	b.Data[b.index(x, y, c)] = v
}

// AtCropped returns component c of the pixel at (x, y) in cropped,
// visible-area coordinates.
func (b *PixelBuffer) AtCropped(x, y, c int) uint16 {
	return b.AtUncropped(x+int(b.MOffset.X), y+int(b.MOffset.Y), c)
}

// SetAtCropped writes component c of the pixel at (x, y) in cropped
// coordinates.
func (b *PixelBuffer) SetAtCropped(x, y, c int, v uint16) {
	b.SetAtUncropped(x+int(b.MOffset.X), y+int(b.MOffset.Y), c, v)
}

// IsBadPixel reports whether (x, y), in uncropped coordinates, is flagged
// in BadPixelMap. Out-of-range coordinates are never flagged.
func (b *PixelBuffer) IsBadPixel(x, y int) bool {
	if b.BadPixelMapPitch == 0 || x < 0 || y < 0 || x >= int(b.UncroppedDim.X) || y >= int(b.UncroppedDim.Y) {
		return false
	}
	byteIdx := y*b.BadPixelMapPitch + (x >> 3)
	if byteIdx < 0 || byteIdx >= len(b.BadPixelMap) {
		return false
	}
	return (b.BadPixelMap[byteIdx]>>(uint(x)&7))&1 != 0
}

// SetBadPixel flags or clears (x, y) in the bad pixel bitmap, allocating
// BadPixelMap/BadPixelMapPitch on first use.
func (b *PixelBuffer) SetBadPixel(x, y int, bad bool) {
	if b.BadPixelMapPitch == 0 {
		b.BadPixelMapPitch = (int(b.UncroppedDim.X) + 7) / 8
		b.BadPixelMap = make([]byte, b.BadPixelMapPitch*int(b.UncroppedDim.Y))
	}
	byteIdx := y*b.BadPixelMapPitch + (x >> 3)
	mask := byte(1) << (uint(x) & 7)
	if bad {
		b.BadPixelMap[byteIdx] |= mask
	} else {
		b.BadPixelMap[byteIdx] &^= mask
	}
}

// AsGray16 returns a read-only image.Gray16 view over the cropped region
// of component 0, for hand-off to preview/encode writers that want a
// stdlib image.Image instead of walking PixelBuffer's stride math
// themselves. Only valid for CPP==1; callers needing multi-plane preview
// access should keep reading PixelBuffer directly.
func (b *PixelBuffer) AsGray16() *image.Gray16 {
	w, h := int(b.Dim.X), int(b.Dim.Y)
	img := image.NewGray16(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*2]
		for x := 0; x < w; x++ {
			v := b.AtCropped(x, y, 0)
			row[x*2] = byte(v >> 8)
			row[x*2+1] = byte(v)
		}
	}
	return img
}

// clamp16 saturates v into [0, 65535], matching rawspeed's clampBits(v,16).
func clamp16(v int32) uint16 {
	if v < 0 {
		return 0
	}
	if v > 65535 {
		return 65535
	}
	return uint16(v)
}
