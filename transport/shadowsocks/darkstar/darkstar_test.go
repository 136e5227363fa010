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
	"net"
	"testing"
)

// runHandshakePair runs RunClientHandshake and RunServerHandshake
// concurrently over an in-memory pipe, modeled on how a real TCP dial
// and accept would drive the same two functions. As a real accept path
// would, it closes the server's end when the server handshake fails, so
// a client still waiting for the server's reply sees EOF.
func runHandshakePair(t *testing.T, serverPriv *KeyPair, clientHost string, clientPort uint16, serverHost string, serverPort uint16) (*Result, *Result, error, error) {
	t.Helper()

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	type outcome struct {
		result *Result
		err    error
	}

	clientDone := make(chan outcome, 1)
	serverDone := make(chan outcome, 1)

	go func() {
		r, err := RunClientHandshake(clientConn, serverPriv.Compact[:], clientHost, clientPort)
		clientDone <- outcome{r, err}
	}()
	go func() {
		r, err := RunServerHandshake(serverConn, serverPriv.Private, serverHost, serverPort)
		if err != nil {
			serverConn.Close()
		}
		serverDone <- outcome{r, err}
	}()

	c := <-clientDone
	s := <-serverDone
	return c.result, s.result, c.err, s.err
}

// A client and server that agree on the server's endpoint must arrive
// at the same shared key and both sides must report no error.
func TestHandshakeHappyPath(t *testing.T) {
	serverPriv, err := GenerateKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	host, port := "203.0.113.7", uint16(8443)
	clientResult, serverResult, clientErr, serverErr := runHandshakePair(t, serverPriv, host, port, host, port)

	if clientErr != nil {
		t.Fatalf("client handshake failed: %v", clientErr)
	}
	if serverErr != nil {
		t.Fatalf("server handshake failed: %v", serverErr)
	}
	if clientResult.EncryptKey != serverResult.DecryptKey {
		t.Fatalf("client and server disagree on the shared key")
	}
	if clientResult.EncryptKey != clientResult.DecryptKey {
		t.Fatalf("a single Result's EncryptKey and DecryptKey must be equal (spec's single shared-key design)")
	}
}

// If the client and server disagree about the server's endpoint, the
// server identifiers they each fold into the confirmation codes
// differ, and the handshake must fail on at least one side rather
// than silently succeeding with mismatched context.
func TestHandshakeEndpointMismatch(t *testing.T) {
	serverPriv, err := GenerateKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	clientHost, clientPort := "203.0.113.7", uint16(8443)
	serverHost, serverPort := "203.0.113.7", uint16(9443)

	_, _, clientErr, serverErr := runHandshakePair(t, serverPriv, clientHost, clientPort, serverHost, serverPort)

	if clientErr == nil && serverErr == nil {
		t.Fatalf("handshake succeeded despite a server identifier mismatch")
	}
}

// A client that holds the wrong server persistent public key must
// fail: its CC_client will not match what the real server expects.
func TestHandshakeWrongServerKey(t *testing.T) {
	realServer, err := GenerateKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	wrongServer, err := GenerateKeyPair(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}

	host, port := "198.51.100.1", uint16(443)

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	type outcome struct {
		result *Result
		err    error
	}
	clientDone := make(chan outcome, 1)
	serverDone := make(chan outcome, 1)

	go func() {
		r, err := RunClientHandshake(clientConn, wrongServer.Compact[:], host, port)
		clientDone <- outcome{r, err}
	}()
	go func() {
		r, err := RunServerHandshake(serverConn, realServer.Private, host, port)
		if err != nil {
			serverConn.Close()
		}
		serverDone <- outcome{r, err}
	}()

	c := <-clientDone
	s := <-serverDone

	if c.err == nil && s.err == nil {
		t.Fatalf("handshake succeeded despite the client trusting the wrong server key")
	}
}

// ServerIdentifier must fold in both the address and the port: two
// different ports at the same address must not collide.
func TestServerIdentifierDistinguishesPort(t *testing.T) {
	a, err := ServerIdentifier("10.0.0.1", 443)
	if err != nil {
		t.Fatalf("ServerIdentifier failed: %v", err)
	}
	b, err := ServerIdentifier("10.0.0.1", 8443)
	if err != nil {
		t.Fatalf("ServerIdentifier failed: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatalf("ServerIdentifier produced identical identifiers for distinct ports")
	}
}

func TestServerIdentifierRejectsHostname(t *testing.T) {
	if _, err := ServerIdentifier("example.com", 443); err == nil {
		t.Fatalf("ServerIdentifier accepted a non-IP hostname")
	}
}

func TestServerIdentifierIPv4Vs6Length(t *testing.T) {
	v4, err := ServerIdentifier("10.0.0.1", 1)
	if err != nil {
		t.Fatalf("ServerIdentifier failed: %v", err)
	}
	if len(v4) != 4+2 {
		t.Fatalf("IPv4 identifier length = %d, want 6", len(v4))
	}

	v6, err := ServerIdentifier("::1", 1)
	if err != nil {
		t.Fatalf("ServerIdentifier failed: %v", err)
	}
	if len(v6) != 16+2 {
		t.Fatalf("IPv6 identifier length = %d, want 18", len(v6))
	}
}
