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

package darkstar

import (
	"crypto/ecdh"
	"crypto/elliptic"
	"io"
	"math/big"

	"github.com/parall4x/ShadowSwift/common/errors"
)

// CompactPointSize is the wire size, in bytes, of a compact-encoded
// P-256 public key: the x-coordinate only, with the y-coordinate's
// parity fixed by convention (spec §4.4, §9 "Compact P-256
// representation").
const CompactPointSize = 32

// maxCompactAttempts bounds the retry loop in GenerateKeyPair. P-256
// points have roughly even odds of landing on either y-parity, so this
// is astronomically generous; it exists only to turn a hypothetical
// broken RNG into an error instead of an infinite loop.
const maxCompactAttempts = 1000

var p256 = ecdh.P256()

// curveParams exposes the field prime and curve coefficient needed to
// recover y from x on decode. No ecosystem elliptic-curve library in
// the retrieved pack (including circl's higher-level group
// abstraction) exposes this bespoke x-only convention directly, so
// this package reaches into crypto/elliptic's curve parameters instead
// of reimplementing P-256 field arithmetic from scratch.
var curveParams = elliptic.P256().Params()

// KeyPair is an ECDH keypair together with its compact public encoding.
type KeyPair struct {
	Private *ecdh.PrivateKey
	Compact [CompactPointSize]byte
}

// isCompactParity reports whether the uncompressed public key bytes
// (0x04 || X || Y) satisfy this package's fixed y-parity convention:
// y even. Decode always reconstructs the even root, so generation must
// only ever emit keys satisfying this check.
func isCompactParity(uncompressed []byte) bool {
	y := uncompressed[1+CompactPointSize:]
	return y[len(y)-1]&1 == 0
}

// GenerateKeyPair generates a P-256 ephemeral or persistent keypair
// whose public key has a compact (x-only) representation under this
// package's fixed parity convention, retrying with a fresh private key
// until one is found (spec §9: "Key generation must loop until a
// compactly-representable point is produced").
func GenerateKeyPair(rand io.Reader) (*KeyPair, error) {
	for attempt := 0; attempt < maxCompactAttempts; attempt++ {
		priv, err := p256.GenerateKey(rand)
		if err != nil {
			return nil, errors.Trace(err)
		}
		pub := priv.PublicKey().Bytes()
		if !isCompactParity(pub) {
			continue
		}
		kp := &KeyPair{Private: priv}
		copy(kp.Compact[:], pub[1:1+CompactPointSize])
		return kp, nil
	}
	return nil, errors.TraceNew("darkstar: failed to generate a compactly-representable keypair")
}

// DecodePublicKey reconstructs a full P-256 public key from its
// compact (x-only) 32-byte encoding, recovering y via the curve
// equation and selecting the root matching this package's fixed parity
// convention (y even). It rejects x values that do not correspond to a
// point on the curve, and the subsequent ecdh.P256().NewPublicKey call
// rejects the point at infinity.
func DecodePublicKey(compact []byte) (*ecdh.PublicKey, error) {
	if len(compact) != CompactPointSize {
		return nil, errors.Tracef("darkstar: compact public key must be %d bytes, got %d", CompactPointSize, len(compact))
	}

	x := new(big.Int).SetBytes(compact)
	p := curveParams.P
	if x.Cmp(p) >= 0 {
		return nil, errors.TraceNew("darkstar: x coordinate not in field")
	}

	// y^2 = x^3 - 3x + B (mod p)
	rhs := new(big.Int).Mul(x, x)
	rhs.Mul(rhs, x)
	threeX := new(big.Int).Lsh(x, 1)
	threeX.Add(threeX, x)
	rhs.Sub(rhs, threeX)
	rhs.Add(rhs, curveParams.B)
	rhs.Mod(rhs, p)

	y := new(big.Int).ModSqrt(rhs, p)
	if y == nil {
		return nil, errors.TraceNew("darkstar: x coordinate is not on the curve")
	}

	// Exactly one of {y, p-y} is even, since p is odd; pick that one
	// to match GenerateKeyPair's fixed convention.
	if y.Bit(0) != 0 {
		y.Sub(p, y)
	}

	uncompressed := make([]byte, 1+2*CompactPointSize)
	uncompressed[0] = 0x04
	x.FillBytes(uncompressed[1 : 1+CompactPointSize])
	y.FillBytes(uncompressed[1+CompactPointSize:])

	pub, err := p256.NewPublicKey(uncompressed)
	if err != nil {
		return nil, errors.TraceMsg(err, "darkstar: decoded point rejected")
	}
	return pub, nil
}
