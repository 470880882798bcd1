package domain

import "errors"

var (
	// ErrInvalidWindow is returned when an appended key window does not start
	// where the newest window ends, or is empty.
	ErrInvalidWindow = errors.New("invalid key window")
	// ErrKeyNotFound is returned when no key window covers a position.
	ErrKeyNotFound = errors.New("no key window covers position")
	// ErrUnknownPeer is returned when a receive stream id has no record.
	ErrUnknownPeer = errors.New("unknown peer stream")
	// ErrPositionRegression is returned when a cursor would move backwards.
	ErrPositionRegression = errors.New("position regression")
	// ErrDuplicatePeer is returned when a receive stream id is added twice.
	ErrDuplicatePeer = errors.New("peer stream already known")
	// ErrNotFound is returned when a stored Interaction does not exist.
	ErrNotFound = errors.New("interaction not found")
)
