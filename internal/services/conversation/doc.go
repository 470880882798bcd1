// Package conversation drives Interactions on behalf of the CLI.
//
// It owns one in-memory Interaction per identifier, seals key material with
// the storage key before it reaches the aggregate, flushes many Interactions
// concurrently and checks stored Interactions for corruption.
package conversation
