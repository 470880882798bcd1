// Package crypto seals Interaction secrets at rest.
//
// Contents
//
//   - Private key sealing for key ratchet windows (SealPrivateKey,
//     OpenPrivateKey). The sealed form keeps the 32 byte width the stored
//     table entry requires, so it is a ChaCha20 keystream keyed per
//     interaction and window start rather than an AEAD.
//   - Username sealing for send stream recipients (SealUsername,
//     OpenUsername) with XChaCha20-Poly1305.
//   - Random identifiers and keys (NewInteractionID, NewStreamID,
//     NewSendKey, NewStorageKey).
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Subkeys are derived from the StorageKey with HKDF-SHA256, salted with the
// interaction id. Callers should treat unsealed keys as sensitive and wipe
// them with memzero when practical.
package crypto
