// Package store provides the storage media behind encoded Interactions and
// the passphrase-protected storage key.
//
// Every medium replaces a stored Interaction atomically: a reader sees either
// the previous bytes or the new bytes, never a mix. The package includes:
//   - InteractionFileStore, one file per Interaction replaced by rename
//   - SQLiteStore, one row per Interaction upserted in a transaction
//   - KeyFileStore, the storage key sealed under a passphrase with scrypt
//
// All methods are concurrency-safe.
package store
