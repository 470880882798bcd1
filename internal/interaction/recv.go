package interaction

import (
	"fmt"

	"e2estore/internal/domain"
)

// RecvStream is the read cursor over one remote peer's stream.
type RecvStream struct {
	ID       domain.StreamID
	Position uint64
}

func (r *RecvStream) advance(pos uint64) error {
	if pos < r.Position {
		return fmt.Errorf("%w: stream %s at %d, asked for %d",
			domain.ErrPositionRegression, r.ID, r.Position, pos)
	}
	r.Position = pos
	return nil
}

func appendRecvStream(b []byte, r RecvStream) []byte {
	b = append(b, r.ID[:]...)
	return appendUvarint(b, r.Position)
}

func (d *decoder) recvStream(i int) (RecvStream, error) {
	var r RecvStream
	id, err := d.fixed(domain.IDSize, fmt.Sprintf("recv_streams[%d].id", i))
	if err != nil {
		return r, err
	}
	copy(r.ID[:], id)
	r.Position, err = d.uvarint(fmt.Sprintf("recv_streams[%d].position", i))
	return r, err
}
