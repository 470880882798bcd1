// Package ratchet holds the key ratchet table of an Interaction.
//
// Each window binds one X25519 keypair to a half-open range of receive
// positions, [Start, End). Windows are kept sorted by Start and contiguous:
// a rotation appends a window that starts where the newest one ends. Lookups
// binary-search the starts, so cost stays logarithmic as rotations pile up.
//
// The table never drops windows on its own. Callers decide when messages
// older than some position can no longer arrive and call Prune.
package ratchet
