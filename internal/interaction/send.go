package interaction

import (
	"fmt"

	"e2estore/internal/domain"
)

// SendStream is the local participant's outbound stream. Recipients keeps
// each send key next to its encrypted username, so the two can never drift
// apart.
type SendStream struct {
	ID         domain.StreamID
	Recipients []domain.Recipient
}

func (s SendStream) clone() SendStream {
	out := SendStream{ID: s.ID, Recipients: make([]domain.Recipient, len(s.Recipients))}
	for i, r := range s.Recipients {
		out.Recipients[i] = domain.Recipient{
			Key:      r.Key,
			Username: append([]byte(nil), r.Username...),
		}
	}
	return out
}

// appendSendStream writes all keys first, then all length-prefixed usernames.
func appendSendStream(b []byte, s SendStream) []byte {
	b = append(b, s.ID[:]...)
	b = appendUvarint(b, uint64(len(s.Recipients)))
	for _, r := range s.Recipients {
		b = append(b, r.Key[:]...)
	}
	for _, r := range s.Recipients {
		b = appendUvarint(b, uint64(len(r.Username)))
		b = append(b, r.Username...)
	}
	return b
}

func (d *decoder) sendStream() (SendStream, error) {
	var s SendStream
	id, err := d.fixed(domain.IDSize, "send_stream.id")
	if err != nil {
		return s, err
	}
	copy(s.ID[:], id)

	// Input too short for count keys ends before count usernames can be
	// read, which breaks the key/username pairing.
	field := "send_stream.recipient_count"
	v, err := d.uvarint(field)
	if err != nil {
		return s, err
	}
	if v > uint64(d.remaining()/domain.KeySize) {
		return s, correlationMismatch(field,
			fmt.Errorf("count %d exceeds remaining %d bytes", v, d.remaining()))
	}
	n := int(v)
	s.Recipients = make([]domain.Recipient, n)
	for i := range s.Recipients {
		k, err := d.fixed(domain.KeySize, fmt.Sprintf("send_stream.keys[%d]", i))
		if err != nil {
			return s, err
		}
		copy(s.Recipients[i].Key[:], k)
	}
	for i := range s.Recipients {
		field = fmt.Sprintf("send_stream.usernames[%d]", i)
		name, err := d.blob(field)
		if err != nil {
			if isKind(err, domain.Truncated) {
				return s, correlationMismatch(field, fmt.Errorf("%d send keys but only %d usernames", n, i))
			}
			return s, err
		}
		s.Recipients[i].Username = name
	}
	return s, nil
}

func correlationMismatch(field string, err error) error {
	return &domain.FormatError{Kind: domain.CorrelationMismatch, Field: field, Err: err}
}
