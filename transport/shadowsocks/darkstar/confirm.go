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
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
)

// ConfirmationSize is the wire size, in bytes, of both confirmation
// codes: CC_client is a raw SHA-256 digest, CC_server an HMAC-SHA-256
// tag, and both are 32 bytes.
const ConfirmationSize = 32

var (
	protocolLabel = []byte("DarkStar")
	clientLabel   = []byte("client")
	serverLabel   = []byte("server")
)

// ComputeSharedKey derives the 32-byte session key from the two ECDH
// outputs:
//
//	sharedKey = SHA-256(
//	    ecdhEphemeralEphemeral ||
//	    ecdhEphemeralStatic    ||
//	    serverId               ||
//	    cePub || sePub         ||
//	    "DarkStar" || "server"
//	)
//
// (spec §4.4, "Shared-key derivation"). The caller computes the two
// ECDH outputs — on the client, ecdh(cePriv, sePub) and
// ecdh(cePriv, spPub); on the server, ecdh(sePriv, cePub) and
// ecdh(spPriv, cePub) — which are equal by the symmetry of ECDH.
func ComputeSharedKey(ecdhEphemeralEphemeral, ecdhEphemeralStatic, serverId, cePub, sePub []byte) [32]byte {
	h := sha256.New()
	h.Write(ecdhEphemeralEphemeral)
	h.Write(ecdhEphemeralStatic)
	h.Write(serverId)
	h.Write(cePub)
	h.Write(sePub)
	h.Write(protocolLabel)
	h.Write(serverLabel)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// ComputeClientConfirmation computes:
//
//	CC_client = SHA-256(
//	    ecdh(cePriv, spPub) || serverId || spPub || cePub ||
//	    "DarkStar" || "client"
//	)
//
// (spec §4.4). The caller supplies ecdhClientStatic — on the client
// this is ecdh(cePriv, spPub); on the server, the symmetric
// ecdh(spPriv, cePub), used to recompute and verify this value.
func ComputeClientConfirmation(ecdhClientStatic, serverId, spPub, cePub []byte) [32]byte {
	h := sha256.New()
	h.Write(ecdhClientStatic)
	h.Write(serverId)
	h.Write(spPub)
	h.Write(cePub)
	h.Write(protocolLabel)
	h.Write(clientLabel)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// ComputeServerConfirmation computes:
//
//	CC_server = HMAC-SHA-256(
//	    key = sharedKey,
//	    serverId || sePub || cePub || "DarkStar" || "server"
//	)
//
// (spec §4.4).
func ComputeServerConfirmation(sharedKey [32]byte, serverId, sePub, cePub []byte) [32]byte {
	mac := hmac.New(sha256.New, sharedKey[:])
	mac.Write(serverId)
	mac.Write(sePub)
	mac.Write(cePub)
	mac.Write(protocolLabel)
	mac.Write(serverLabel)
	var out [32]byte
	copy(out[:], mac.Sum(nil))
	return out
}

// ConstantTimeEqual reports whether a and b are equal, in constant
// time with respect to their contents (spec §5 "Secret hygiene",
// §9 "Constant-time comparisons"). Both handshake functions check the
// peer's confirmation code with this instead of naive byte comparison,
// which leaks timing. AEAD tags are not checked here: the framing
// layer leaves tag verification to cipher.AEAD.Open.
func ConstantTimeEqual(a, b [32]byte) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
