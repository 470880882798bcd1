// Package memzero wipes secret material from memory.
package memzero

import "runtime"

// Zero overwrites b with zeros. The write is kept alive so it is not
// dropped as dead when b is never read again.
func Zero(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}
