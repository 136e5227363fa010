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
	"encoding/binary"
	"fmt"
	"net"
	"strconv"
)

// Address type tags, as per the SOCKS5 address header this package's
// first application payload carries (spec §4.5).
const (
	AtypIPv4   byte = 0x01
	AtypDomain byte = 0x03
	AtypIPv6   byte = 0x04
)

// Addr is a decoded target-address header: AddrType(1) || address ||
// Port(2, big-endian).
type Addr struct {
	Type   byte
	IP     net.IP // set when Type is AtypIPv4 or AtypIPv6
	Domain string // set when Type is AtypDomain
	Port   uint16
}

// String renders the address in host:port form.
func (a *Addr) String() string {
	host := a.Domain
	if a.IP != nil {
		host = a.IP.String()
	}
	return net.JoinHostPort(host, strconv.Itoa(int(a.Port)))
}

// ParseAddr decodes a SOCKS5-style address header from the start of b,
// returning the decoded Addr and the number of bytes consumed.
// Malformed or truncated input is a fatal protocol error (spec §4.5):
// the connection wrapper must tear down the connection on any error
// returned here, never attempt recovery.
func ParseAddr(b []byte) (*Addr, int, error) {
	if len(b) < 1 {
		return nil, 0, &FramingError{Reason: "address header: empty"}
	}

	atyp := b[0]
	i := 1

	addr := &Addr{Type: atyp}
	switch atyp {
	case AtypIPv4:
		if len(b) < i+net.IPv4len {
			return nil, 0, &FramingError{Reason: "address header: truncated IPv4 address"}
		}
		addr.IP = net.IP(append([]byte(nil), b[i:i+net.IPv4len]...))
		i += net.IPv4len
	case AtypIPv6:
		if len(b) < i+net.IPv6len {
			return nil, 0, &FramingError{Reason: "address header: truncated IPv6 address"}
		}
		addr.IP = net.IP(append([]byte(nil), b[i:i+net.IPv6len]...))
		i += net.IPv6len
	case AtypDomain:
		if len(b) < i+1 {
			return nil, 0, &FramingError{Reason: "address header: missing domain length"}
		}
		domainLen := int(b[i])
		i++
		if len(b) < i+domainLen {
			return nil, 0, &FramingError{Reason: "address header: truncated domain name"}
		}
		addr.Domain = string(b[i : i+domainLen])
		i += domainLen
	default:
		return nil, 0, &FramingError{Reason: fmt.Sprintf("address header: unknown address type 0x%02x", atyp)}
	}

	if len(b) < i+2 {
		return nil, 0, &FramingError{Reason: "address header: truncated port"}
	}
	addr.Port = binary.BigEndian.Uint16(b[i : i+2])
	i += 2

	return addr, i, nil
}

// AppendAddr appends the wire encoding of addr to dst and returns the
// extended slice. Exactly one of addr.IP or addr.Domain must be set,
// consistent with addr.Type.
func AppendAddr(dst []byte, addr *Addr) ([]byte, error) {
	switch addr.Type {
	case AtypIPv4:
		ip4 := addr.IP.To4()
		if ip4 == nil {
			return nil, &FramingError{Reason: "address header: AtypIPv4 requires a 4-byte IP"}
		}
		dst = append(dst, AtypIPv4)
		dst = append(dst, ip4...)
	case AtypIPv6:
		ip16 := addr.IP.To16()
		if ip16 == nil {
			return nil, &FramingError{Reason: "address header: AtypIPv6 requires a 16-byte IP"}
		}
		dst = append(dst, AtypIPv6)
		dst = append(dst, ip16...)
	case AtypDomain:
		if len(addr.Domain) > 255 {
			return nil, &FramingError{Reason: "address header: domain name too long"}
		}
		dst = append(dst, AtypDomain, byte(len(addr.Domain)))
		dst = append(dst, addr.Domain...)
	default:
		return nil, &FramingError{Reason: "address header: unknown address type"}
	}

	var portBuf [2]byte
	binary.BigEndian.PutUint16(portBuf[:], addr.Port)
	dst = append(dst, portBuf[:]...)
	return dst, nil
}
