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

// Package config carries the immutable configuration surface consumed
// by the transport/shadowsocks factory: cipher mode, credentials and
// the server endpoint the DarkStar handshake binds itself to.
package config

import (
	"crypto/ecdh"
	"encoding/hex"
	"net"
	"strconv"

	"github.com/parall4x/ShadowSwift/common/errors"
)

// CipherMode selects the AEAD/handshake strategy for a connection.
type CipherMode int

const (
	AES128GCM CipherMode = iota
	AES256GCM
	ChaCha20IETFPoly1305
	DarkStarClient
	DarkStarServer
)

func (m CipherMode) String() string {
	switch m {
	case AES128GCM:
		return "AES-128-GCM"
	case AES256GCM:
		return "AES-256-GCM"
	case ChaCha20IETFPoly1305:
		return "CHACHA20-IETF-POLY1305"
	case DarkStarClient:
		return "DarkStarClient"
	case DarkStarServer:
		return "DarkStarServer"
	default:
		return "unknown"
	}
}

// IsDarkStar reports whether m uses the DarkStar ECDH handshake instead
// of a cleartext-salt classic AEAD session.
func (m CipherMode) IsDarkStar() bool {
	return m == DarkStarClient || m == DarkStarServer
}

// ServerPersistentPublicKeySize is the length, in bytes, of the
// compact-encoded P-256 public key distributed out of band to DarkStar
// clients.
const ServerPersistentPublicKeySize = 32

// ShadowConfig is the immutable configuration for one connection
// factory. Construct with New; the zero value is not valid.
type ShadowConfig struct {
	mode CipherMode

	// password is the classic-mode pre-shared secret. Empty for DarkStar
	// modes.
	password string

	// serverPersistentPublicKey is the 32-byte compact P-256 point
	// distributed out of band to DarkStar clients. Set only in
	// DarkStarClient mode.
	serverPersistentPublicKey []byte

	// serverPersistentPrivateKey is the server's own long-term P-256
	// private key. Set only in DarkStarServer mode.
	serverPersistentPrivateKey *ecdh.PrivateKey

	// serverHost/serverPort bind the DarkStar handshake to a specific
	// listening endpoint (see spec §4.4, "Server identifier"). Unused
	// for classic modes.
	serverHost string
	serverPort uint16
}

// Mode returns the configured cipher mode.
func (c *ShadowConfig) Mode() CipherMode { return c.mode }

// Password returns the configured pre-shared password. Only meaningful
// for classic AEAD modes.
func (c *ShadowConfig) Password() string { return c.password }

// ServerPersistentPublicKey returns the 32-byte compact P-256 point.
// Only meaningful for DarkStar modes.
func (c *ShadowConfig) ServerPersistentPublicKey() []byte {
	return c.serverPersistentPublicKey
}

// ServerPersistentPrivateKey returns the server's own long-term P-256
// private key. Only meaningful in DarkStarServer mode.
func (c *ShadowConfig) ServerPersistentPrivateKey() *ecdh.PrivateKey {
	return c.serverPersistentPrivateKey
}

// ServerEndpoint returns the (host, port) the DarkStar handshake binds
// itself to.
func (c *ShadowConfig) ServerEndpoint() (string, uint16) {
	return c.serverHost, c.serverPort
}

// ServerAddr returns the endpoint formatted as host:port.
func (c *ShadowConfig) ServerAddr() string {
	return net.JoinHostPort(c.serverHost, strconv.Itoa(int(c.serverPort)))
}

// Option configures a ShadowConfig under construction.
type Option func(*ShadowConfig)

// WithPassword sets the classic-mode pre-shared password.
func WithPassword(password string) Option {
	return func(c *ShadowConfig) { c.password = password }
}

// WithServerPersistentPublicKeyHex sets the DarkStar server's persistent
// public key from its hex-encoded wire form.
func WithServerPersistentPublicKeyHex(hexKey string) Option {
	return func(c *ShadowConfig) {
		key, err := hex.DecodeString(hexKey)
		if err != nil {
			c.serverPersistentPublicKey = nil
			return
		}
		c.serverPersistentPublicKey = key
	}
}

// WithServerPersistentPublicKey sets the DarkStar server's persistent
// public key directly from its 32-byte compact encoding.
func WithServerPersistentPublicKey(key []byte) Option {
	return func(c *ShadowConfig) {
		c.serverPersistentPublicKey = append([]byte(nil), key...)
	}
}

// WithServerPersistentPrivateKey sets the server's own long-term P-256
// private key, for DarkStarServer mode.
func WithServerPersistentPrivateKey(priv *ecdh.PrivateKey) Option {
	return func(c *ShadowConfig) { c.serverPersistentPrivateKey = priv }
}

// WithServerEndpoint sets the (host, port) the DarkStar handshake binds
// to. host must be a literal IP address; DarkStar is undefined for
// hostnames (spec §4.4).
func WithServerEndpoint(host string, port uint16) Option {
	return func(c *ShadowConfig) {
		c.serverHost = host
		c.serverPort = port
	}
}

// New validates and constructs a ShadowConfig for the given mode. It
// fails fast (ConfigError) on any combination that the connection
// wrapper could not later act on.
func New(mode CipherMode, opts ...Option) (*ShadowConfig, error) {
	cfg := &ShadowConfig{mode: mode}
	for _, opt := range opts {
		opt(cfg)
	}

	switch mode {
	case AES128GCM, AES256GCM, ChaCha20IETFPoly1305:
		if cfg.password == "" {
			return nil, errors.TraceNew("config: classic AEAD mode requires a password")
		}
	case DarkStarClient:
		if len(cfg.serverPersistentPublicKey) != ServerPersistentPublicKeySize {
			return nil, errors.Tracef(
				"config: DarkStarClient mode requires a %d-byte server persistent public key, got %d",
				ServerPersistentPublicKeySize, len(cfg.serverPersistentPublicKey))
		}
		if net.ParseIP(cfg.serverHost) == nil {
			return nil, errors.Tracef(
				"config: DarkStar mode requires an IP server endpoint, got %q", cfg.serverHost)
		}
		if cfg.serverPort == 0 {
			return nil, errors.TraceNew("config: DarkStar mode requires a nonzero server port")
		}
	case DarkStarServer:
		if cfg.serverPersistentPrivateKey == nil {
			return nil, errors.TraceNew("config: DarkStarServer mode requires a server persistent private key")
		}
		if net.ParseIP(cfg.serverHost) == nil {
			return nil, errors.Tracef(
				"config: DarkStar mode requires an IP server endpoint, got %q", cfg.serverHost)
		}
		if cfg.serverPort == 0 {
			return nil, errors.TraceNew("config: DarkStar mode requires a nonzero server port")
		}
	default:
		return nil, errors.Tracef("config: unsupported cipher mode %d", int(mode))
	}

	return cfg, nil
}
