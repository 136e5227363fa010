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
	"context"
	"crypto/rand"
	"io"
	"net"

	"github.com/parall4x/ShadowSwift/common"
	"github.com/parall4x/ShadowSwift/common/errors"
	"github.com/parall4x/ShadowSwift/config"
	"github.com/parall4x/ShadowSwift/transport/shadowsocks/darkstar"
)

// Conn wraps a raw net.Conn with the shadowsocks framed AEAD stream.
// Once constructed (by Dial or NewServerConn) the handshake has
// already completed: there is no exposed way to obtain a Conn whose
// Read/Write would operate before a session key exists (spec §9,
// "Handshake state as a sum type").
//
// Per spec §5, a Conn is single-owner and synchronous per direction:
// callers must serialize their own Reads against each other and their
// own Writes against each other, but a concurrent Read and Write on
// the same Conn is safe, since each direction owns an independent
// NonceCounter and the only state they share is the immutable session
// key material.
type Conn struct {
	net.Conn
	reader *Reader
	writer *Writer
	logger common.Logger
}

// Read implements io.Reader by pulling and decrypting chunks. See
// Reader.Read.
func (c *Conn) Read(b []byte) (int, error) {
	n, err := c.reader.Read(b)
	if err != nil && err != io.EOF {
		return n, errors.Trace(err)
	}
	return n, err
}

// Write implements io.Writer by encrypting and sending chunks. See
// Writer.Write.
func (c *Conn) Write(b []byte) (int, error) {
	n, err := c.writer.Write(b)
	if err != nil {
		return n, errors.Trace(err)
	}
	return n, nil
}

// Dial runs the handshake appropriate to cfg.Mode() over raw and
// returns a Conn ready for application Read/Write. ctx is checked once,
// before the handshake starts; it does not interrupt a handshake in
// progress. Callers that need handshake cancellation should set a
// deadline on raw before calling Dial (spec §5, "Timeouts are the
// transport's responsibility").
//
// For classic AEAD modes, Dial generates a random salt, writes it in
// the clear, and derives the session key via HKDF (spec §6, "Wire,
// classic AEAD"). For DarkStar modes, Dial runs the DarkStar handshake,
// which produces the session key directly (spec §6, "Wire, DarkStar").
func Dial(ctx context.Context, raw net.Conn, cfg *config.ShadowConfig) (*Conn, error) {
	select {
	case <-ctx.Done():
		return nil, &TransportError{Err: ctx.Err()}
	default:
	}

	if cfg.Mode().IsDarkStar() {
		return dialDarkStar(raw, cfg)
	}
	return dialClassic(raw, cfg)
}

func dialClassic(raw net.Conn, cfg *config.ShadowConfig) (*Conn, error) {
	suite, err := SuiteForMode(cfg.Mode())
	if err != nil {
		return nil, err
	}

	psk := DeriveKeyFromPassword(cfg.Password(), suite.KeySize())

	salt := make([]byte, suite.SaltSize())
	if _, err := rand.Read(salt); err != nil {
		return nil, &HandshakeError{Reason: "failed to generate salt", Err: err}
	}
	if _, err := raw.Write(salt); err != nil {
		return nil, &TransportError{Err: err}
	}

	sessionKey, err := DeriveSessionKey(psk, salt)
	if err != nil {
		return nil, &HandshakeError{Reason: "HKDF subkey derivation failed", Err: err}
	}

	aead, err := suite.NewAEAD(sessionKey)
	if err != nil {
		return nil, &ConfigError{Reason: "failed to construct AEAD: " + err.Error()}
	}

	// A classic-mode client and server each independently generate
	// their own salt for their own outbound direction; the AEAD
	// instance for the other direction is constructed once that
	// direction's salt has been read off the wire. Dial is the client
	// side of this exchange: its write-direction salt is generated
	// above, and its read-direction salt is the first thing it reads
	// from the server.
	peerSalt := make([]byte, suite.SaltSize())
	if _, err := io.ReadFull(raw, peerSalt); err != nil {
		return nil, &HandshakeError{Reason: "failed to read peer salt", Err: err}
	}
	peerSessionKey, err := DeriveSessionKey(psk, peerSalt)
	if err != nil {
		return nil, &HandshakeError{Reason: "HKDF subkey derivation failed", Err: err}
	}
	peerAEAD, err := suite.NewAEAD(peerSessionKey)
	if err != nil {
		return nil, &ConfigError{Reason: "failed to construct AEAD: " + err.Error()}
	}

	return newConn(raw, NewWriter(raw, aead), NewReader(raw, peerAEAD)), nil
}

func dialDarkStar(raw net.Conn, cfg *config.ShadowConfig) (*Conn, error) {
	host, port := cfg.ServerEndpoint()
	result, err := darkstar.RunClientHandshake(raw, cfg.ServerPersistentPublicKey(), host, port)
	if err != nil {
		return nil, wrapDarkStarError(err)
	}

	suite, err := SuiteForMode(cfg.Mode())
	if err != nil {
		return nil, err
	}
	writeAEAD, err := suite.NewAEAD(result.EncryptKey[:])
	if err != nil {
		return nil, &ConfigError{Reason: "failed to construct AEAD: " + err.Error()}
	}
	readAEAD, err := suite.NewAEAD(result.DecryptKey[:])
	if err != nil {
		return nil, &ConfigError{Reason: "failed to construct AEAD: " + err.Error()}
	}

	return newConn(raw, NewWriter(raw, writeAEAD), NewReader(raw, readAEAD)), nil
}

// NewServerConn runs the accept-side handshake appropriate to
// cfg.Mode() over raw and returns a Conn ready for application
// Read/Write. This is the server-side counterpart to Dial, modeled on
// the accept path of a shadowsocks listener.
func NewServerConn(raw net.Conn, cfg *config.ShadowConfig) (*Conn, error) {
	if cfg.Mode() == config.DarkStarServer {
		host, port := cfg.ServerEndpoint()
		result, err := darkstar.RunServerHandshake(raw, cfg.ServerPersistentPrivateKey(), host, port)
		if err != nil {
			return nil, wrapDarkStarError(err)
		}
		suite, err := SuiteForMode(cfg.Mode())
		if err != nil {
			return nil, err
		}
		writeAEAD, err := suite.NewAEAD(result.EncryptKey[:])
		if err != nil {
			return nil, &ConfigError{Reason: "failed to construct AEAD: " + err.Error()}
		}
		readAEAD, err := suite.NewAEAD(result.DecryptKey[:])
		if err != nil {
			return nil, &ConfigError{Reason: "failed to construct AEAD: " + err.Error()}
		}
		return newConn(raw, NewWriter(raw, writeAEAD), NewReader(raw, readAEAD)), nil
	}

	suite, err := SuiteForMode(cfg.Mode())
	if err != nil {
		return nil, err
	}
	psk := DeriveKeyFromPassword(cfg.Password(), suite.KeySize())

	peerSalt := make([]byte, suite.SaltSize())
	if _, err := io.ReadFull(raw, peerSalt); err != nil {
		return nil, &HandshakeError{Reason: "failed to read peer salt", Err: err}
	}
	peerSessionKey, err := DeriveSessionKey(psk, peerSalt)
	if err != nil {
		return nil, &HandshakeError{Reason: "HKDF subkey derivation failed", Err: err}
	}
	readAEAD, err := suite.NewAEAD(peerSessionKey)
	if err != nil {
		return nil, &ConfigError{Reason: "failed to construct AEAD: " + err.Error()}
	}

	salt := make([]byte, suite.SaltSize())
	if _, err := rand.Read(salt); err != nil {
		return nil, &HandshakeError{Reason: "failed to generate salt", Err: err}
	}
	if _, err := raw.Write(salt); err != nil {
		return nil, &TransportError{Err: err}
	}
	sessionKey, err := DeriveSessionKey(psk, salt)
	if err != nil {
		return nil, &HandshakeError{Reason: "HKDF subkey derivation failed", Err: err}
	}
	writeAEAD, err := suite.NewAEAD(sessionKey)
	if err != nil {
		return nil, &ConfigError{Reason: "failed to construct AEAD: " + err.Error()}
	}

	return newConn(raw, NewWriter(raw, writeAEAD), NewReader(raw, readAEAD)), nil
}

// SetLogger attaches a logger to an already-established Conn. Handshake
// material is never logged. The only log line a Conn emits is the
// Debug-level "session established" line, written by the constructor
// to the default NoopLogger before SetLogger can be called; nothing is
// written to a logger attached here.
func (c *Conn) SetLogger(logger common.Logger) {
	if logger == nil {
		logger = common.NoopLogger{}
	}
	c.logger = logger
}

func newConn(raw net.Conn, writer *Writer, reader *Reader) *Conn {
	c := &Conn{
		Conn:   raw,
		writer: writer,
		reader: reader,
		logger: common.NoopLogger{},
	}
	c.logger.WithTrace().Debug("shadowsocks session established")
	return c
}

func wrapDarkStarError(err error) error {
	if dsErr, ok := err.(*darkstar.HandshakeError); ok {
		return &HandshakeError{Reason: dsErr.Reason, Err: dsErr.Err}
	}
	return &HandshakeError{Reason: "DarkStar handshake failed", Err: err}
}
