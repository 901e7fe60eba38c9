package store

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	// HeaderSize is the fixed header size.
	HeaderSize = 64

	// PageAlign is the alignment of the slot data in persist files.
	PageAlign = 4096

	// Magic identifies a valid arraytree file.
	Magic = "BSTA"

	// FormatVersion is the current file format version.
	FormatVersion uint16 = 1

	// SlotBytes is the width of one slot (int32).
	SlotBytes = 4
)

var (
	ErrHeaderTooShort     = errors.New("header too short")
	ErrInvalidMagic       = errors.New("invalid magic")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrSlotWidth          = errors.New("unsupported slot width")
)

// Header holds the persisted tree metadata.
type Header struct {
	Magic       [4]byte
	Version     uint16
	SlotBytes   uint16
	Compression uint8 // snapshot codec; CompressionNone for persist files
	_           [7]byte
	Capacity    uint64
	Size        uint64
	HighWater   uint64
	DataOffset  uint64
	Reserved    [16]byte // pad to 64 bytes
}

// EncodeHeader writes the header to a byte slice, padded to HeaderSize.
func EncodeHeader(h *Header) ([]byte, error) {
	if h == nil {
		return nil, errors.New("header is nil")
	}
	copy(h.Magic[:], Magic)
	h.Version = FormatVersion
	h.SlotBytes = SlotBytes
	var w bytes.Buffer
	if err := binary.Write(&w, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	b := w.Bytes()
	if len(b) < HeaderSize {
		padded := make([]byte, HeaderSize)
		copy(padded, b)
		return padded, nil
	}
	return b, nil
}

// DecodeHeader reads the header from src.
func DecodeHeader(src []byte) (*Header, error) {
	if len(src) < HeaderSize {
		return nil, ErrHeaderTooShort
	}
	var h Header
	r := bytes.NewReader(src[:HeaderSize])
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if string(h.Magic[:]) != Magic {
		return nil, ErrInvalidMagic
	}
	if h.Version != FormatVersion {
		return nil, ErrUnsupportedVersion
	}
	if h.SlotBytes != SlotBytes {
		return nil, ErrSlotWidth
	}
	return &h, nil
}

// AlignUp rounds x up to a multiple of align.
func AlignUp(x, align int64) int64 {
	if x%align == 0 {
		return x
	}
	return (x/align + 1) * align
}
