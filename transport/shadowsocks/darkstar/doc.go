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

Package darkstar implements the DarkStar handshake: an
ephemeral-ephemeral / ephemeral-static ECDH exchange over NIST P-256
that yields a session key and mutual authentication via confirmation
codes, without relying on a PKI.

The dual ECDH binds the session to the server's long-term identity
(defeating MITM without certificates) while the ephemeral-ephemeral
half provides forward secrecy. Confirmation codes are one-directional
MACs proving knowledge of the persistent secret (client's) and of the
derived session key (server's), authenticating each side before any
application data flows.
*/
package darkstar
