package x3f

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/sigmaraw/x3fpipe/rawpipe"
)

// rawpMagic identifies the minimal self-describing raw-sensor container
// DecodeRawFrame reads: a fixed header of geometry/calibration fields
// followed by uncropped row-major uint16 samples. It exists to give the
// core something concrete to consume without reimplementing a
// vendor's proprietary RAW container — spec.md §1 treats file-format
// parsing as an external collaborator "whose interface we only
// reference," and this is that interface's simplest real instance.
const rawpMagic uint32 = 0x50574152 // "RAWP", little-endian on disk

const rawpVersion uint32 = 1

// DecodeRawFrame reads one RawFrame from r. All multi-byte fields are
// little-endian, matching the teacher's own X3F header convention.
func DecodeRawFrame(r io.Reader) (*RawFrame, error) {
	br := bufio.NewReader(r)

	var magic, version uint32
	if err := binary.Read(br, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("rawp: read magic: %w", err)
	}
	if magic != rawpMagic {
		return nil, fmt.Errorf("rawp: bad magic %#x, want %#x", magic, rawpMagic)
	}
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("rawp: read version: %w", err)
	}
	if version != rawpVersion {
		return nil, fmt.Errorf("rawp: unsupported version %d", version)
	}

	frame := &RawFrame{}
	var fields = []interface{}{
		&frame.Width, &frame.Height,
		&frame.UncroppedWidth, &frame.UncroppedHeight,
		&frame.OffsetX, &frame.OffsetY,
	}
	for _, f := range fields {
		if err := binary.Read(br, binary.LittleEndian, f); err != nil {
			return nil, fmt.Errorf("rawp: read geometry: %w", err)
		}
	}

	var cpp uint32
	var isCFA uint8
	if err := binary.Read(br, binary.LittleEndian, &cpp); err != nil {
		return nil, fmt.Errorf("rawp: read cpp: %w", err)
	}
	if err := binary.Read(br, binary.LittleEndian, &isCFA); err != nil {
		return nil, fmt.Errorf("rawp: read isCFA: %w", err)
	}
	frame.CPP = int(cpp)
	frame.IsCFA = isCFA != 0

	if err := binary.Read(br, binary.LittleEndian, &frame.BlackLevel); err != nil {
		return nil, fmt.Errorf("rawp: read blackLevel: %w", err)
	}
	if err := binary.Read(br, binary.LittleEndian, &frame.WhitePoint); err != nil {
		return nil, fmt.Errorf("rawp: read whitePoint: %w", err)
	}
	var iso uint32
	if err := binary.Read(br, binary.LittleEndian, &iso); err != nil {
		return nil, fmt.Errorf("rawp: read iso: %w", err)
	}
	frame.ISO = int(iso)

	var numAreas uint32
	if err := binary.Read(br, binary.LittleEndian, &numAreas); err != nil {
		return nil, fmt.Errorf("rawp: read black area count: %w", err)
	}
	frame.BlackAreas = make([]rawpipe.BlackArea, numAreas)
	for i := range frame.BlackAreas {
		var vertical uint8
		var offset, size uint32
		if err := binary.Read(br, binary.LittleEndian, &vertical); err != nil {
			return nil, fmt.Errorf("rawp: read black area %d: %w", i, err)
		}
		if err := binary.Read(br, binary.LittleEndian, &offset); err != nil {
			return nil, fmt.Errorf("rawp: read black area %d: %w", i, err)
		}
		if err := binary.Read(br, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("rawp: read black area %d: %w", i, err)
		}
		frame.BlackAreas[i] = rawpipe.BlackArea{IsVertical: vertical != 0, Offset: offset, Size: size}
	}

	var numBad uint32
	if err := binary.Read(br, binary.LittleEndian, &numBad); err != nil {
		return nil, fmt.Errorf("rawp: read bad pixel count: %w", err)
	}
	frame.BadPixels = make([]BadPixel, numBad)
	for i := range frame.BadPixels {
		var x, y uint32
		if err := binary.Read(br, binary.LittleEndian, &x); err != nil {
			return nil, fmt.Errorf("rawp: read bad pixel %d: %w", i, err)
		}
		if err := binary.Read(br, binary.LittleEndian, &y); err != nil {
			return nil, fmt.Errorf("rawp: read bad pixel %d: %w", i, err)
		}
		frame.BadPixels[i] = BadPixel{X: int(x), Y: int(y)}
	}

	samples := int(frame.UncroppedWidth) * int(frame.UncroppedHeight) * frame.CPP
	frame.Data = make([]uint16, samples)
	if err := binary.Read(br, binary.LittleEndian, &frame.Data); err != nil {
		return nil, fmt.Errorf("rawp: read pixel data: %w", err)
	}

	return frame, nil
}

// EncodeRawFrame writes frame back out in DecodeRawFrame's container
// format; used by tests and by tools that synthesize frames.
func EncodeRawFrame(w io.Writer, frame *RawFrame) error {
	bw := bufio.NewWriter(w)

	for _, v := range []interface{}{
		rawpMagic, rawpVersion,
		frame.Width, frame.Height,
		frame.UncroppedWidth, frame.UncroppedHeight,
		frame.OffsetX, frame.OffsetY,
		uint32(frame.CPP), boolToByte(frame.IsCFA),
		frame.BlackLevel, frame.WhitePoint,
		uint32(frame.ISO),
		uint32(len(frame.BlackAreas)),
	} {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	for _, a := range frame.BlackAreas {
		if err := binary.Write(bw, binary.LittleEndian, boolToByte(a.IsVertical)); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, a.Offset); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, a.Size); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, uint32(len(frame.BadPixels))); err != nil {
		return err
	}
	for _, bp := range frame.BadPixels {
		if err := binary.Write(bw, binary.LittleEndian, uint32(bp.X)); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(bp.Y)); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, binary.LittleEndian, frame.Data); err != nil {
		return err
	}
	return bw.Flush()
}

func boolToByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
