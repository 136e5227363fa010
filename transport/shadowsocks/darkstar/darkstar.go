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
	"crypto/rand"
	"io"
)

// Result is the outcome of a completed handshake: the symmetric key
// material to feed the framed AEAD stream that follows.
//
// Spec §4.4 fixes the simpler of two designs (see §9, "Direction-split
// keys"): the same 32-byte shared key is used for both directions, so
// EncryptKey and DecryptKey are always equal here. They are carried as
// separate fields so that a future, direction-split revision (HKDF-
// Expand with "c2s"/"s2c" labels) is a drop-in change for every caller
// of this package — callers never compare the two fields or assume
// they alias.
//
// A Result only ever exists for a handshake that has already
// succeeded: there is no "Start" value a caller can hold and mistake
// for a completed handshake (spec §9, "Handshake state as a sum type").
// Both RunClientHandshake and RunServerHandshake either return a
// *Result or an error, never both, never neither.
type Result struct {
	EncryptKey [32]byte
	DecryptKey [32]byte
}

func ecdhShared(priv *ecdh.PrivateKey, pub *ecdh.PublicKey) ([]byte, error) {
	shared, err := priv.ECDH(pub)
	if err != nil {
		return nil, &HandshakeError{Reason: "ECDH failed", Err: err}
	}
	return shared, nil
}

// RunClientHandshake runs the DarkStar client (initiator) flow over rw
// against a server whose persistent public key is serverPersistentPub
// (32-byte compact encoding) and whose identifier is bound to
// host/port (spec §4.4, "Server identifier"). It writes exactly
// CompactPointSize+ConfirmationSize bytes, then reads exactly the same
// amount, then returns.
func RunClientHandshake(rw io.ReadWriter, serverPersistentPub []byte, host string, port uint16) (*Result, error) {
	serverId, err := ServerIdentifier(host, port)
	if err != nil {
		return nil, &HandshakeError{Reason: "invalid server identifier", Err: err}
	}

	spPub, err := DecodePublicKey(serverPersistentPub)
	if err != nil {
		return nil, &HandshakeError{Reason: "invalid server persistent public key", Err: err}
	}

	ce, err := GenerateKeyPair(rand.Reader)
	if err != nil {
		return nil, &HandshakeError{Reason: "ephemeral keypair generation failed", Err: err}
	}

	ecdhClientStatic, err := ecdhShared(ce.Private, spPub)
	if err != nil {
		return nil, err
	}

	ccClient := ComputeClientConfirmation(ecdhClientStatic, serverId, serverPersistentPub, ce.Compact[:])

	out := make([]byte, 0, CompactPointSize+ConfirmationSize)
	out = append(out, ce.Compact[:]...)
	out = append(out, ccClient[:]...)
	if _, err := rw.Write(out); err != nil {
		return nil, &HandshakeError{Reason: "failed to send client hello", Err: err}
	}

	in := make([]byte, CompactPointSize+ConfirmationSize)
	if _, err := io.ReadFull(rw, in); err != nil {
		return nil, &HandshakeError{Reason: "failed to read server response", Err: err}
	}
	sePubCompact := in[:CompactPointSize]
	ccServerObserved := in[CompactPointSize:]

	sePub, err := DecodePublicKey(sePubCompact)
	if err != nil {
		return nil, &HandshakeError{Reason: "invalid server ephemeral public key", Err: err}
	}

	ecdhEphemeralEphemeral, err := ecdhShared(ce.Private, sePub)
	if err != nil {
		return nil, err
	}

	sharedKey := ComputeSharedKey(ecdhEphemeralEphemeral, ecdhClientStatic, serverId, ce.Compact[:], sePubCompact)

	ccServerExpected := ComputeServerConfirmation(sharedKey, serverId, sePubCompact, ce.Compact[:])
	var observed [ConfirmationSize]byte
	copy(observed[:], ccServerObserved)
	if !ConstantTimeEqual(ccServerExpected, observed) {
		return nil, &HandshakeError{Reason: "server confirmation code mismatch"}
	}

	return &Result{EncryptKey: sharedKey, DecryptKey: sharedKey}, nil
}

// RunServerHandshake runs the DarkStar server (responder) flow over rw
// using the server's persistent private key and the endpoint it
// believes it is bound to (host/port). It reads exactly
// CompactPointSize+ConfirmationSize bytes, then writes the same amount,
// then returns.
func RunServerHandshake(rw io.ReadWriter, serverPersistentPriv *ecdh.PrivateKey, host string, port uint16) (*Result, error) {
	serverId, err := ServerIdentifier(host, port)
	if err != nil {
		return nil, &HandshakeError{Reason: "invalid server identifier", Err: err}
	}

	in := make([]byte, CompactPointSize+ConfirmationSize)
	if _, err := io.ReadFull(rw, in); err != nil {
		return nil, &HandshakeError{Reason: "failed to read client hello", Err: err}
	}
	cePubCompact := in[:CompactPointSize]
	ccClientObserved := in[CompactPointSize:]

	cePub, err := DecodePublicKey(cePubCompact)
	if err != nil {
		return nil, &HandshakeError{Reason: "invalid client ephemeral public key", Err: err}
	}

	spPubBytes := serverPersistentPriv.PublicKey().Bytes()
	spPubCompact := spPubBytes[1 : 1+CompactPointSize]

	ecdhClientStatic, err := ecdhShared(serverPersistentPriv, cePub)
	if err != nil {
		return nil, err
	}

	ccClientExpected := ComputeClientConfirmation(ecdhClientStatic, serverId, spPubCompact, cePubCompact)
	var observed [ConfirmationSize]byte
	copy(observed[:], ccClientObserved)
	if !ConstantTimeEqual(ccClientExpected, observed) {
		return nil, &HandshakeError{Reason: "client confirmation code mismatch"}
	}

	se, err := GenerateKeyPair(rand.Reader)
	if err != nil {
		return nil, &HandshakeError{Reason: "ephemeral keypair generation failed", Err: err}
	}

	ecdhEphemeralEphemeral, err := ecdhShared(se.Private, cePub)
	if err != nil {
		return nil, err
	}

	sharedKey := ComputeSharedKey(ecdhEphemeralEphemeral, ecdhClientStatic, serverId, cePubCompact, se.Compact[:])

	ccServer := ComputeServerConfirmation(sharedKey, serverId, se.Compact[:], cePubCompact)

	out := make([]byte, 0, CompactPointSize+ConfirmationSize)
	out = append(out, se.Compact[:]...)
	out = append(out, ccServer[:]...)
	if _, err := rw.Write(out); err != nil {
		return nil, &HandshakeError{Reason: "failed to send server response", Err: err}
	}

	return &Result{EncryptKey: sharedKey, DecryptKey: sharedKey}, nil
}

// HandshakeError indicates an invalid peer point, a confirmation-code
// mismatch, or premature EOF during the handshake.
type HandshakeError struct {
	Reason string
	Err    error
}

func (e *HandshakeError) Error() string {
	if e.Err != nil {
		return "darkstar: handshake error: " + e.Reason + ": " + e.Err.Error()
	}
	return "darkstar: handshake error: " + e.Reason
}

func (e *HandshakeError) Unwrap() error { return e.Err }
