package x3f

import "github.com/sigmaraw/x3fpipe/rawpipe"

// BadPixel is one flagged defective sensor site, in uncropped coordinates.
type BadPixel struct {
	X, Y int
}

// RawFrame is the hand-off contract between a decoder and the
// post-processing core: "parsers deliver a decoded pixel buffer plus
// geometry and black-area descriptors" (spec.md §1). File-format
// parsing, per-vendor decompression, and metadata extraction are the
// external collaborators spec.md scopes out of the core; RawFrame is
// the shape their output takes. DecodeRawFrame (rawfile.go) is one
// concrete producer of it; a vendor-specific decoder would be another.
type RawFrame struct {
	// Width, Height is the cropped, visible area; UncroppedWidth,
	// UncroppedHeight is the full sensor area including masked borders.
	Width, Height                   uint32
	UncroppedWidth, UncroppedHeight uint32

	// OffsetX, OffsetY is the origin of the visible area inside the
	// uncropped buffer; its parity fixes CFA phase.
	OffsetX, OffsetY uint32

	// CPP is components per pixel: 1 for Bayer/monochrome raw data,
	// more for already-demosaicked or multi-plane buffers.
	CPP int

	// IsCFA reports whether the sensor obeys a 2x2 mosaic phase
	// structure.
	IsCFA bool

	// BlackLevel is the scalar black level; rawpipe.UnsetBlack means
	// "unset/estimate".
	BlackLevel int32
	// WhitePoint is the saturation value; rawpipe.EstimateWhite or
	// above means "estimate it".
	WhitePoint int32
	// BlackAreas lists the masked strips available for black-level
	// estimation, in uncropped coordinates.
	BlackAreas []rawpipe.BlackArea

	// BadPixels lists defect sites the metadata layer has flagged.
	BadPixels []BadPixel

	// ISO is logged verbatim during black/white estimation (spec.md §6).
	ISO int

	// Table is the optional sensor value lookup table; nil means no
	// lookup stage runs.
	Table *rawpipe.LookupTable

	// Data is contiguous row-major uncropped uint16 sample storage,
	// length UncroppedWidth*UncroppedHeight*CPP.
	Data []uint16
}
