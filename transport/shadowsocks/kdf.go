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
	"crypto/md5"
	"crypto/sha1"
	"io"

	"golang.org/x/crypto/hkdf"
)

// subkeyInfo is the HKDF info string fixed by the Shadowsocks AEAD
// spec: https://shadowsocks.org/guide/aead.html.
var subkeyInfo = []byte("ss-subkey")

// DeriveKeyFromPassword turns a human password into a fixed-size
// pre-shared key, EVP_BytesToKey-compatible with upstream Shadowsocks
// (https://www.openssl.org/docs/manmaster/man3/EVP_BytesToKey.html).
//
// This is retained for wire compatibility only: repeated MD5 over the
// password is cryptographically weak, and callers sensitive to offline
// dictionary attacks should prefer a DarkStar mode instead (see
// darkstar package).
func DeriveKeyFromPassword(password string, keyLen int) []byte {
	var derived, prev []byte
	h := md5.New()
	for len(derived) < keyLen {
		h.Reset()
		h.Write(prev)
		h.Write([]byte(password))
		derived = h.Sum(derived)
		prev = derived[len(derived)-h.Size():]
	}
	return derived[:keyLen]
}

// DeriveSessionKey derives the per-connection AEAD key from a
// pre-shared key and a per-connection salt via HKDF-SHA1, as specified
// by the Shadowsocks AEAD spec. salt must be the same length as psk.
// The returned key is len(psk) bytes.
func DeriveSessionKey(psk, salt []byte) ([]byte, error) {
	sessionKey := make([]byte, len(psk))
	r := hkdf.New(sha1.New, psk, salt, subkeyInfo)
	if _, err := io.ReadFull(r, sessionKey); err != nil {
		return nil, err
	}
	return sessionKey, nil
}
