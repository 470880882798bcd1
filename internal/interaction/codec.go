package interaction

import (
	"errors"
	"fmt"

	"e2estore/internal/domain"
	"e2estore/internal/ratchet"
	"e2estore/internal/varint"
)

// Smallest encodings of the repeated elements, used to reject counts that
// cannot fit the remaining input before allocating for them.
const (
	minRecvStreamSize = domain.IDSize + 1
	minKeyEntrySize   = 1 + 1 + 2*domain.KeySize
)

// snapshot is one complete encodable Interaction state.
type snapshot struct {
	recv []RecvStream
	send SendStream
	keys []domain.Window
}

func (s snapshot) encode() []byte {
	b := make([]byte, 0, 64+len(s.recv)*minRecvStreamSize+len(s.keys)*minKeyEntrySize)
	b = appendUvarint(b, uint64(len(s.recv)))
	for _, r := range s.recv {
		b = appendRecvStream(b, r)
	}
	b = appendSendStream(b, s.send)
	b = appendUvarint(b, uint64(len(s.keys)))
	for _, w := range s.keys {
		b = appendUvarint(b, w.Start)
		b = appendUvarint(b, w.End)
		b = append(b, w.Public[:]...)
		b = append(b, w.Private[:]...)
	}
	return b
}

func decodeSnapshot(b []byte) (snapshot, *ratchet.Table, error) {
	var s snapshot
	d := &decoder{b: b}

	n, err := d.count("recv_stream_count", minRecvStreamSize)
	if err != nil {
		return s, nil, err
	}
	s.recv = make([]RecvStream, n)
	seen := make(map[domain.StreamID]struct{}, n)
	for i := range s.recv {
		if s.recv[i], err = d.recvStream(i); err != nil {
			return s, nil, err
		}
		if _, dup := seen[s.recv[i].ID]; dup {
			return s, nil, &domain.FormatError{
				Kind:  domain.DuplicatePeer,
				Field: fmt.Sprintf("recv_streams[%d].id", i),
				Err:   fmt.Errorf("stream %s", s.recv[i].ID),
			}
		}
		seen[s.recv[i].ID] = struct{}{}
	}

	if s.send, err = d.sendStream(); err != nil {
		return s, nil, err
	}

	if n, err = d.count("recv_key_count", minKeyEntrySize); err != nil {
		return s, nil, err
	}
	s.keys = make([]domain.Window, n)
	for i := range s.keys {
		if s.keys[i], err = d.window(i); err != nil {
			return s, nil, err
		}
	}
	tbl, err := ratchet.FromWindows(s.keys)
	if err != nil {
		return s, nil, err
	}

	if d.remaining() != 0 {
		return s, nil, &domain.FormatError{
			Kind: domain.TrailingData,
			Err:  fmt.Errorf("%d bytes after key table", d.remaining()),
		}
	}
	return s, tbl, nil
}

func appendUvarint(b []byte, v uint64) []byte { return varint.Append(b, v) }

// decoder walks an encoded Interaction front to back.
type decoder struct {
	b   []byte
	off int
}

func (d *decoder) remaining() int { return len(d.b) - d.off }

func (d *decoder) uvarint(field string) (uint64, error) {
	v, n, err := varint.Consume(d.b[d.off:])
	if err != nil {
		return 0, withField(err, field)
	}
	d.off += n
	return v, nil
}

func (d *decoder) fixed(n int, field string) ([]byte, error) {
	if d.remaining() < n {
		return nil, &domain.FormatError{
			Kind:  domain.Truncated,
			Field: field,
			Err:   fmt.Errorf("want %d bytes, %d left", n, d.remaining()),
		}
	}
	b := d.b[d.off : d.off+n]
	d.off += n
	return b, nil
}

// count reads a length and checks that that many elements of at least
// minSize bytes could still follow.
func (d *decoder) count(field string, minSize int) (int, error) {
	v, err := d.uvarint(field)
	if err != nil {
		return 0, err
	}
	if v > uint64(d.remaining()/minSize) {
		return 0, &domain.FormatError{
			Kind:  domain.Truncated,
			Field: field,
			Err:   fmt.Errorf("count %d exceeds remaining %d bytes", v, d.remaining()),
		}
	}
	return int(v), nil
}

// blob reads a length-prefixed byte string and returns a copy of it.
func (d *decoder) blob(field string) ([]byte, error) {
	n, err := d.uvarint(field)
	if err != nil {
		return nil, err
	}
	if n > uint64(d.remaining()) {
		return nil, &domain.FormatError{
			Kind:  domain.Truncated,
			Field: field,
			Err:   fmt.Errorf("length %d exceeds remaining %d bytes", n, d.remaining()),
		}
	}
	b, err := d.fixed(int(n), field)
	if err != nil {
		return nil, err
	}
	return append([]byte{}, b...), nil
}

func (d *decoder) window(i int) (domain.Window, error) {
	var w domain.Window
	var err error
	if w.Start, err = d.uvarint(fmt.Sprintf("recv_keys[%d].start", i)); err != nil {
		return w, err
	}
	if w.End, err = d.uvarint(fmt.Sprintf("recv_keys[%d].end", i)); err != nil {
		return w, err
	}
	pub, err := d.fixed(domain.KeySize, fmt.Sprintf("recv_keys[%d].pubkey", i))
	if err != nil {
		return w, err
	}
	copy(w.Public[:], pub)
	priv, err := d.fixed(domain.KeySize, fmt.Sprintf("recv_keys[%d].privkey", i))
	if err != nil {
		return w, err
	}
	copy(w.Private[:], priv)
	return w, nil
}

func withField(err error, field string) error {
	var fe *domain.FormatError
	if errors.As(err, &fe) && fe.Field == "" {
		c := *fe
		c.Field = field
		return &c
	}
	return err
}

func isKind(err error, k domain.FormatErrorKind) bool {
	return errors.Is(err, &domain.FormatError{Kind: k})
}
