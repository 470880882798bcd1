// Package commands defines the e2estore CLI and wires dependencies for subcommands.
//
// Commands
//
//   - init            Create the passphrase-protected storage key
//   - create          Start a new Interaction
//   - list            List stored Interactions
//   - recipient add   Add a recipient to the send stream
//   - recipient list  Show recipients with their usernames
//   - peer add        Track a remote peer stream
//   - peer list       Show receive cursors
//   - advance         Move a peer cursor forward
//   - rotate          Append a key window
//   - key             Show the key window covering a position
//   - prune           Drop key windows that ended before a position
//   - receive         Decrypt a message from a peer stream
//   - dump            Print the full state of an Interaction
//   - fsck            Decode every stored Interaction and report corruption
//
// # Implementation
//
// The root command resolves the configuration and opens the storage medium
// before any subcommand runs. Commands that touch Interactions open the
// storage key with the passphrase and flush every Interaction they used
// before exiting.
package commands
