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

/*

Package shadowsocks implements the cryptographic transport core of a
Shadowsocks-compatible obfuscating proxy client: length-prefixed AEAD
framing over a byte stream, the legacy password KDF and per-session
HKDF subkey derivation, and the DarkStar ephemeral/static P-256
handshake (see the darkstar subpackage).

Traffic framed by this package is, to a passive observer, indistinguishable
from random bytes: every chunk is independently authenticated, and classic
modes prefix only a random salt in the clear.
*/
package shadowsocks
