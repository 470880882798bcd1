package types

import (
	"encoding/hex"
	"fmt"
)

// IDSize is the width of interaction and stream identifiers.
const IDSize = 16

// InteractionID names one stored conversation. It is not part of the
// encoded Interaction; stores use it as the object key.
type InteractionID [IDSize]byte

// Slice returns the identifier as a []byte.
func (id InteractionID) Slice() []byte { return id[:] }

// String returns the lowercase hex form of the identifier.
func (id InteractionID) String() string { return hex.EncodeToString(id[:]) }

// StreamID identifies a send or receive stream.
type StreamID [IDSize]byte

// Slice returns the identifier as a []byte.
func (id StreamID) Slice() []byte { return id[:] }

// String returns the lowercase hex form of the identifier.
func (id StreamID) String() string { return hex.EncodeToString(id[:]) }

// ParseInteractionID decodes a 32 character hex string.
func ParseInteractionID(s string) (InteractionID, error) {
	var id InteractionID
	if err := parseHex(s, id[:]); err != nil {
		return id, fmt.Errorf("interaction id: %w", err)
	}
	return id, nil
}

// ParseStreamID decodes a 32 character hex string.
func ParseStreamID(s string) (StreamID, error) {
	var id StreamID
	if err := parseHex(s, id[:]); err != nil {
		return id, fmt.Errorf("stream id: %w", err)
	}
	return id, nil
}

func parseHex(s string, out []byte) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(b) != len(out) {
		return fmt.Errorf("want %d bytes, got %d", len(out), len(b))
	}
	copy(out, b)
	return nil
}
