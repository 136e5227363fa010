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
	"net"
	"testing"
)

func TestAddrRoundTripIPv4(t *testing.T) {
	want := &Addr{Type: AtypIPv4, IP: net.ParseIP("93.184.216.34").To4(), Port: 443}

	wire, err := AppendAddr(nil, want)
	if err != nil {
		t.Fatalf("AppendAddr failed: %v", err)
	}

	got, n, err := ParseAddr(wire)
	if err != nil {
		t.Fatalf("ParseAddr failed: %v", err)
	}
	if n != len(wire) {
		t.Fatalf("ParseAddr consumed %d bytes, want %d", n, len(wire))
	}
	if got.Type != want.Type || !got.IP.Equal(want.IP) || got.Port != want.Port {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestAddrRoundTripIPv6(t *testing.T) {
	want := &Addr{Type: AtypIPv6, IP: net.ParseIP("2001:db8::1"), Port: 8443}

	wire, err := AppendAddr(nil, want)
	if err != nil {
		t.Fatalf("AppendAddr failed: %v", err)
	}

	got, n, err := ParseAddr(wire)
	if err != nil {
		t.Fatalf("ParseAddr failed: %v", err)
	}
	if n != len(wire) {
		t.Fatalf("ParseAddr consumed %d bytes, want %d", n, len(wire))
	}
	if !got.IP.Equal(want.IP) || got.Port != want.Port {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestAddrRoundTripDomain(t *testing.T) {
	want := &Addr{Type: AtypDomain, Domain: "example.com", Port: 80}

	wire, err := AppendAddr(nil, want)
	if err != nil {
		t.Fatalf("AppendAddr failed: %v", err)
	}

	got, n, err := ParseAddr(wire)
	if err != nil {
		t.Fatalf("ParseAddr failed: %v", err)
	}
	if n != len(wire) {
		t.Fatalf("ParseAddr consumed %d bytes, want %d", n, len(wire))
	}
	if got.Domain != want.Domain || got.Port != want.Port {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestParseAddrTruncated(t *testing.T) {
	cases := [][]byte{
		{},                         // empty
		{AtypIPv4, 1, 2, 3},        // truncated IPv4
		{AtypDomain, 5, 'a', 'b'},  // truncated domain
		{AtypIPv4, 1, 2, 3, 4, 0x50}, // truncated port
		{0xFF},                     // unknown type
	}
	for i, b := range cases {
		if _, _, err := ParseAddr(b); err == nil {
			t.Fatalf("case %d: ParseAddr(%x) accepted malformed input", i, b)
		}
	}
}

func TestAddrString(t *testing.T) {
	a := &Addr{Type: AtypDomain, Domain: "example.com", Port: 443}
	if got, want := a.String(), "example.com:443"; got != want {
		t.Fatalf("Addr.String() = %q, want %q", got, want)
	}
}

func TestAppendAddrDomainTooLong(t *testing.T) {
	longDomain := make([]byte, 256)
	for i := range longDomain {
		longDomain[i] = 'a'
	}
	a := &Addr{Type: AtypDomain, Domain: string(longDomain), Port: 80}
	if _, err := AppendAddr(nil, a); err == nil {
		t.Fatalf("AppendAddr accepted a domain name longer than 255 bytes")
	}
}
