package engine

import (
	"bytes"
	"fmt"

	"github.com/davecgh/go-xdr/xdr2"

	"e2estore/internal/domain"
)

// WrappedKey is the content key sealed for one recipient.
type WrappedKey struct {
	KEMCiphertext []byte // empty for DH-only recipients
	Sealed        []byte
}

// Components is one encrypted message as produced by Encrypt.
type Components struct {
	Version    uint32
	Sender     domain.PublicKey
	Keys       []WrappedKey
	Ciphertext []byte
	Signature  []byte
}

// Marshal returns the XDR encoding of c.
func (c *Components) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, c); err != nil {
		return nil, fmt.Errorf("marshal components: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalComponents decodes the XDR encoding produced by Marshal.
func UnmarshalComponents(b []byte) (*Components, error) {
	var c Components
	br := bytes.NewReader(b)
	if _, err := xdr.Unmarshal(br, &c); err != nil {
		return nil, fmt.Errorf("unmarshal components: %w", err)
	}
	if br.Len() != 0 {
		return nil, fmt.Errorf("unmarshal components: %d trailing bytes", br.Len())
	}
	return &c, nil
}

// signedBytes is the encoding covered by Signature.
func (c *Components) signedBytes() ([]byte, error) {
	unsigned := *c
	unsigned.Signature = nil
	return unsigned.Marshal()
}
