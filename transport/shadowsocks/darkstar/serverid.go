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
	"encoding/binary"
	"net"

	"github.com/parall4x/ShadowSwift/common/errors"
)

// ServerIdentifier encodes the server's listening endpoint as
// ip_bytes || port_big_endian_u16, where ip_bytes is 4 bytes for IPv4
// and 16 bytes for IPv6 (spec §4.4). This binds the handshake to a
// specific server address: a client and server that disagree on the
// endpoint produce different identifiers, so the server rejects the
// client's confirmation code (spec scenario "DarkStar endpoint
// mismatch").
//
// Non-IP endpoints (hostnames) are rejected: the handshake is
// undefined for them.
func ServerIdentifier(host string, port uint16) ([]byte, error) {
	ip := net.ParseIP(host)
	if ip == nil {
		return nil, &ConfigError{Reason: "DarkStar server identifier requires a literal IP address, got " + host}
	}

	var ipBytes []byte
	if v4 := ip.To4(); v4 != nil {
		ipBytes = v4
	} else {
		v6 := ip.To16()
		if v6 == nil {
			return nil, errors.TraceNew("darkstar: unrecognized IP address form")
		}
		ipBytes = v6
	}

	id := make([]byte, len(ipBytes)+2)
	copy(id, ipBytes)
	binary.BigEndian.PutUint16(id[len(ipBytes):], port)
	return id, nil
}

// ConfigError indicates a DarkStar configuration that cannot produce a
// valid server identifier or handshake.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "darkstar: config error: " + e.Reason }
