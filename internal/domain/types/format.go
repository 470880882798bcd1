package types

import "fmt"

// FormatErrorKind classifies malformed Interaction bytes.
type FormatErrorKind int

const (
	// Truncated means the input ended before a field was complete.
	Truncated FormatErrorKind = iota + 1
	// WidthMismatch means a varint carried a byte count its tag does not allow.
	WidthMismatch
	// ReservedBits means a varint header had bits set outside the width tag.
	ReservedBits
	// NonCanonical means a varint used a wider class than its value needs.
	NonCanonical
	// CorrelationMismatch means fewer usernames than send keys were present.
	CorrelationMismatch
	// DuplicatePeer means two receive streams share an id.
	DuplicatePeer
	// WindowOrder means key windows were empty, overlapping or not contiguous.
	WindowOrder
	// TrailingData means bytes followed the key table.
	TrailingData
)

func (k FormatErrorKind) String() string {
	switch k {
	case Truncated:
		return "truncated"
	case WidthMismatch:
		return "width mismatch"
	case ReservedBits:
		return "reserved bits set"
	case NonCanonical:
		return "non-canonical varint"
	case CorrelationMismatch:
		return "recipient correlation mismatch"
	case DuplicatePeer:
		return "duplicate receive stream"
	case WindowOrder:
		return "key windows out of order"
	case TrailingData:
		return "trailing data"
	default:
		return fmt.Sprintf("format error %d", int(k))
	}
}

// FormatError reports malformed bytes. Field names the element being decoded.
type FormatError struct {
	Kind  FormatErrorKind
	Field string
	Err   error
}

func (e *FormatError) Error() string {
	msg := e.Kind.String()
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is matches any *FormatError with the same Kind, so callers can test
// errors.Is(err, &FormatError{Kind: Truncated}).
func (e *FormatError) Is(target error) bool {
	t, ok := target.(*FormatError)
	if !ok {
		return false
	}
	return t.Kind == 0 || t.Kind == e.Kind
}
