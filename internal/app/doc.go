// Package app wires application dependencies for the CLI.
//
// It resolves Config from defaults, the ini file in the home directory, the
// environment and flags, then builds the storage medium, the storage key
// store and the conversation service, exposing them via Wire and App.
package app
