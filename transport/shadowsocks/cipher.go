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
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/parall4x/ShadowSwift/config"
)

// CipherSuite binds a CipherMode to its concrete AEAD constructor and
// the key/salt/tag sizes the framing and handshake layers need. Classic
// AEAD modes carry a nonzero saltSize (the cleartext salt prefixed to
// the stream); DarkStar modes carry saltSize 0, since the handshake
// itself establishes the key (spec §6, "Wire, DarkStar").
type CipherSuite struct {
	newAEAD  func(key []byte) (cipher.AEAD, error)
	keySize  int
	saltSize int
}

// KeySize is the AEAD key length, in bytes, for this suite.
func (s *CipherSuite) KeySize() int { return s.keySize }

// SaltSize is the cleartext salt length, in bytes, prefixed to classic
// AEAD streams. Zero for DarkStar modes.
func (s *CipherSuite) SaltSize() int { return s.saltSize }

// NewAEAD constructs the cipher.AEAD for this suite from a session key
// of exactly KeySize bytes.
func (s *CipherSuite) NewAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != s.keySize {
		return nil, &ConfigError{Reason: "session key length does not match cipher suite"}
	}
	return s.newAEAD(key)
}

func newAESGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

var (
	suiteAES128GCM = &CipherSuite{newAEAD: newAESGCM, keySize: 16, saltSize: 16}
	suiteAES256GCM = &CipherSuite{newAEAD: newAESGCM, keySize: 32, saltSize: 32}
	suiteChaCha20  = &CipherSuite{newAEAD: chacha20poly1305.New, keySize: 32, saltSize: 32}

	// DarkStar modes reuse the AES-256-GCM AEAD for the framed stream
	// that follows the handshake (spec §9, "FIXME markers in source":
	// DarkStar differs only in how the key is established, not in the
	// framed-stream format). The handshake produces a 32-byte shared
	// key, which is exactly the AES-256-GCM key size.
	suiteDarkStar = &CipherSuite{newAEAD: newAESGCM, keySize: 32, saltSize: 0}
)

// SuiteForMode returns the CipherSuite for the given mode, or a
// ConfigError if the mode is not recognized.
func SuiteForMode(mode config.CipherMode) (*CipherSuite, error) {
	switch mode {
	case config.AES128GCM:
		return suiteAES128GCM, nil
	case config.AES256GCM:
		return suiteAES256GCM, nil
	case config.ChaCha20IETFPoly1305:
		return suiteChaCha20, nil
	case config.DarkStarClient, config.DarkStarServer:
		return suiteDarkStar, nil
	default:
		return nil, &ConfigError{Reason: "unsupported cipher mode"}
	}
}
