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
	"bytes"
	"crypto/rand"
	"testing"
)

// A generated keypair's compact encoding must decode back to a public
// key that matches the one the private key itself reports, round
// tripping through the x-only/fixed-parity convention.
func TestGenerateAndDecodeRoundTrip(t *testing.T) {
	for i := 0; i < 20; i++ {
		kp, err := GenerateKeyPair(rand.Reader)
		if err != nil {
			t.Fatalf("GenerateKeyPair failed: %v", err)
		}

		decoded, err := DecodePublicKey(kp.Compact[:])
		if err != nil {
			t.Fatalf("DecodePublicKey failed: %v", err)
		}

		if !bytes.Equal(decoded.Bytes(), kp.Private.PublicKey().Bytes()) {
			t.Fatalf("decoded public key does not match the generated key's own public key")
		}
	}
}

// Every key GenerateKeyPair returns must already satisfy the fixed
// parity convention that DecodePublicKey reconstructs.
func TestGenerateKeyPairParityInvariant(t *testing.T) {
	for i := 0; i < 20; i++ {
		kp, err := GenerateKeyPair(rand.Reader)
		if err != nil {
			t.Fatalf("GenerateKeyPair failed: %v", err)
		}
		if !isCompactParity(kp.Private.PublicKey().Bytes()) {
			t.Fatalf("generated keypair does not satisfy the compact parity convention")
		}
	}
}

func TestDecodePublicKeyRejectsWrongLength(t *testing.T) {
	if _, err := DecodePublicKey(make([]byte, CompactPointSize-1)); err == nil {
		t.Fatalf("DecodePublicKey accepted a short input")
	}
	if _, err := DecodePublicKey(make([]byte, CompactPointSize+1)); err == nil {
		t.Fatalf("DecodePublicKey accepted a long input")
	}
}

// An x-coordinate that is not on the curve (rhs is a non-residue) must
// be rejected, not silently treated as a valid point.
func TestDecodePublicKeyRejectsOffCurve(t *testing.T) {
	// 2^256 - 1 is larger than P-256's field prime, so it is rejected
	// before the curve equation is evaluated.
	x := make([]byte, CompactPointSize)
	for i := range x {
		x[i] = 0xFF
	}
	if _, err := DecodePublicKey(x); err == nil {
		t.Fatalf("DecodePublicKey accepted an x-coordinate outside the field or off the curve")
	}

	// x = 1 is inside the field, but 1 - 3 + B is a non-residue mod p,
	// so no point on P-256 has this x-coordinate.
	offCurve := make([]byte, CompactPointSize)
	offCurve[CompactPointSize-1] = 1
	if _, err := DecodePublicKey(offCurve); err == nil {
		t.Fatalf("DecodePublicKey accepted an x-coordinate that is not on the curve")
	}
}

// GenerateKeyPair must produce distinct keys across calls.
func TestGenerateKeyPairDistinct(t *testing.T) {
	a, err := GenerateKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	b, err := GenerateKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	if bytes.Equal(a.Compact[:], b.Compact[:]) {
		t.Fatalf("two independent GenerateKeyPair calls returned the same compact key")
	}
}
