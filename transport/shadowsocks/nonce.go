/*
 * Copyright (c) 2026, ShadowSwift contributors
 * All rights reserved.
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

package shadowsocks

import (
	"encoding/binary"
	"math"
)

// nonceSize is the wire size, in bytes, of every supported AEAD's
// nonce (AES-GCM and ChaCha20-Poly1305 both use 96-bit nonces).
const nonceSize = 12

// NonceCounter is a per-direction, monotonically increasing counter
// used to derive AEAD nonces. One instance belongs to exactly one
// direction of exactly one connection (spec §4.3, §9 "Nonce
// ownership"): it must never be shared between a connection's read and
// write halves.
//
// The wire representation is the 64-bit counter, little-endian,
// left-padded to 12 bytes with zeros in positions 8..11. This is
// distinct from the chunk length field, which is big-endian on the
// wire (spec §9, "Endianness traps") — callers must not confuse the
// two by reusing a single byte-order convention.
type NonceCounter struct {
	value uint64
	buf   [nonceSize]byte
}

// Next returns the wire-format nonce for the next AEAD operation and
// advances the counter. The returned slice is owned by the
// NonceCounter and is overwritten by the next call to Next.
//
// Next panics if the counter has overflowed 2^64 operations — per
// spec §4.3, this is "practically unreachable" and is treated as a
// fatal programming error rather than a recoverable condition.
func (n *NonceCounter) Next() []byte {
	if n.value == math.MaxUint64 {
		panic("shadowsocks: nonce counter overflow")
	}
	binary.LittleEndian.PutUint64(n.buf[:8], n.value)
	n.value++
	return n.buf[:]
}

// Value returns the counter's current value, for tests and diagnostics.
func (n *NonceCounter) Value() uint64 { return n.value }
