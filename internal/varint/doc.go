// Package varint implements the variable-width unsigned integer used for
// every count, length and position in the Interaction byte layout.
//
// # Format
//
// A value is written as a one-byte header followed by 0, 1, 4 or 8 value
// bytes in big-endian order. The low two bits of the header are the width
// tag; the upper six bits are reserved and must be zero.
//
//	tag  value bytes  range
//	0    0            0
//	1    1            1 .. 0xff
//	2    4            0x100 .. 0xffffffff
//	3    8            0x100000000 .. 0xffffffffffffffff
//
// The table is part of the stored format and must not change. Encoders always
// pick the narrowest class; decoders reject wider ones so every value has a
// single encoding.
package varint
