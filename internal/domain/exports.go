package domain

import (
	interfaces "e2estore/internal/domain/interfaces"
	types "e2estore/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	InteractionID    = types.InteractionID
	StreamID         = types.StreamID
	SendKey          = types.SendKey
	PublicKey        = types.PublicKey
	PrivateKey       = types.PrivateKey
	SealedPrivateKey = types.SealedPrivateKey
	StorageKey       = types.StorageKey
	Recipient        = types.Recipient
	Window           = types.Window
	FormatError      = types.FormatError
	FormatErrorKind  = types.FormatErrorKind
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	InteractionStore = interfaces.InteractionStore
	StorageKeyStore  = interfaces.StorageKeyStore
)

// Format error kinds.
const (
	Truncated           = types.Truncated
	WidthMismatch       = types.WidthMismatch
	ReservedBits        = types.ReservedBits
	NonCanonical        = types.NonCanonical
	CorrelationMismatch = types.CorrelationMismatch
	DuplicatePeer       = types.DuplicatePeer
	WindowOrder         = types.WindowOrder
	TrailingData        = types.TrailingData
)

// Sizes shared by the byte layout.
const (
	IDSize  = types.IDSize
	KeySize = types.KeySize
)

// Parsers re-exported for callers that only import domain.
var (
	ParseInteractionID = types.ParseInteractionID
	ParseStreamID      = types.ParseStreamID
)
