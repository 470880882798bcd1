// Package engine is the hybrid encryption collaborator of the store.
//
// A message is sealed once under a fresh content key. The content key is then
// wrapped for every recipient, either with an X25519 agreement alone or with
// an X25519 agreement combined with an NTRU Prime encapsulation. The sender
// signs the result with an Ed25519 fingerprint key so recipients holding the
// matching verifier can authenticate it.
//
// Only the 32-byte X25519 keys are kept in an Interaction's key table; KEM
// keys are too large for it and are held by the caller.
package engine
