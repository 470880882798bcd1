package varint

import (
	"encoding/binary"
	"fmt"

	"e2estore/internal/domain"
)

const (
	// MaxLen is the longest encoding: header plus eight value bytes.
	MaxLen = 1 + 8

	tagMask = 0x03
)

// widths maps a width tag to its number of value bytes.
var widths = [4]int{0, 1, 4, 8}

// Width returns the number of value bytes selected by tag.
func Width(tag byte) (int, error) {
	if tag > tagMask {
		return 0, &domain.FormatError{Kind: domain.ReservedBits, Err: fmt.Errorf("tag %#x", tag)}
	}
	return widths[tag], nil
}

// tagFor returns the narrowest tag able to hold v.
func tagFor(v uint64) byte {
	switch {
	case v == 0:
		return 0
	case v <= 0xff:
		return 1
	case v <= 0xffffffff:
		return 2
	default:
		return 3
	}
}

// Size returns the encoded length of v, header included.
func Size(v uint64) int { return 1 + widths[tagFor(v)] }

// Encode returns the width tag and big-endian value bytes for v.
func Encode(v uint64) (tag byte, b []byte) {
	tag = tagFor(v)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	return tag, buf[8-widths[tag]:]
}

// Decode reverses Encode. It fails with a WidthMismatch FormatError when
// len(b) is not the width selected by tag, and with NonCanonical when a
// narrower tag could have held the value.
func Decode(tag byte, b []byte) (uint64, error) {
	w, err := Width(tag)
	if err != nil {
		return 0, err
	}
	if len(b) != w {
		return 0, &domain.FormatError{
			Kind: domain.WidthMismatch,
			Err:  fmt.Errorf("tag %d wants %d bytes, got %d", tag, w, len(b)),
		}
	}
	var buf [8]byte
	copy(buf[8-w:], b)
	v := binary.BigEndian.Uint64(buf[:])
	if tagFor(v) != tag {
		return 0, &domain.FormatError{
			Kind: domain.NonCanonical,
			Err:  fmt.Errorf("value %d encoded with tag %d", v, tag),
		}
	}
	return v, nil
}

// Append appends the encoding of v to dst.
func Append(dst []byte, v uint64) []byte {
	tag, b := Encode(v)
	dst = append(dst, tag)
	return append(dst, b...)
}

// Consume decodes one value from the front of b and reports how many bytes
// it used.
func Consume(b []byte) (v uint64, n int, err error) {
	if len(b) == 0 {
		return 0, 0, &domain.FormatError{Kind: domain.Truncated, Err: fmt.Errorf("missing varint header")}
	}
	hdr := b[0]
	if hdr&^tagMask != 0 {
		return 0, 0, &domain.FormatError{Kind: domain.ReservedBits, Err: fmt.Errorf("header %#x", hdr)}
	}
	w := widths[hdr]
	if len(b)-1 < w {
		return 0, 0, &domain.FormatError{
			Kind: domain.Truncated,
			Err:  fmt.Errorf("varint wants %d bytes, %d left", w, len(b)-1),
		}
	}
	v, err = Decode(hdr, b[1:1+w])
	if err != nil {
		return 0, 0, err
	}
	return v, 1 + w, nil
}
