// Package interaction persists the state of one end-to-end encrypted
// conversation: the local send stream, one receive cursor per remote peer
// and the key ratchet table used to decrypt incoming messages.
//
// # Byte layout
//
//	Interaction  := recv_stream_count:varint RecvStream* SendStream
//	                recv_key_count:varint RecvKeyEntry*
//	RecvStream   := id[16] position:varint
//	SendStream   := id[16] recipient_count:varint key[32]*
//	                (len:varint name[len])*
//	RecvKeyEntry := start:varint end:varint pubkey[32] privkey_sealed[32]
//
// Varints are described in package varint. The interaction id is not part of
// the layout; stores key the encoded bytes by it.
//
// # Flushing
//
// Mutations only touch memory. Put writes the send stream and the key table,
// SyncAll writes every receive cursor and Sync writes one. Each flush
// replaces the whole stored object atomically, combining the state being
// flushed with whatever was last written for the other side, so a crash
// between flushes never leaves a partially written record and receive
// cursors are never persisted half-way through a SyncAll.
//
// An Interaction serialises mutations with one lock covering all three
// records. Flushes encode under that lock and write after releasing it, so a
// slow medium does not stall message processing.
package interaction
