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
	"crypto/cipher"
	"encoding/binary"
	"io"
)

// MaxPayloadSize is the largest plaintext payload, in bytes, that fits
// in a single chunk (spec §3, "Chunk (wire frame)").
const MaxPayloadSize = 0x4000 // 16384

// lenFieldSize is the wire size of a chunk's big-endian length field.
const lenFieldSize = 2

// Pack encrypts plaintext into a single wire chunk:
//
//	len_ct(2) || len_tag(16) || payload_ct(len) || payload_tag(16)
//
// len is plaintext's length, encoded big-endian (spec §9, "Endianness
// traps": the length field is big-endian, unlike the little-endian
// nonce). Pack performs exactly two AEAD seals, advancing counter
// twice, per spec §3's NonceCounter invariant (incremented once per
// AEAD operation, twice per chunk).
//
// dst, if it has enough capacity, is reused to avoid an allocation;
// otherwise a new buffer is returned. dst and plaintext must not alias.
func Pack(dst []byte, plaintext []byte, aead cipher.AEAD, counter *NonceCounter) ([]byte, error) {
	if len(plaintext) == 0 || len(plaintext) > MaxPayloadSize {
		return nil, ErrPayloadTooLarge
	}

	overhead := aead.Overhead()
	total := lenFieldSize + overhead + len(plaintext) + overhead
	if cap(dst) < total {
		dst = make([]byte, total)
	}
	dst = dst[:total]

	var lenBuf [lenFieldSize]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(plaintext)))

	sealedLen := aead.Seal(dst[:0], counter.Next(), lenBuf[:], nil)
	sealedPayload := aead.Seal(sealedLen, counter.Next(), plaintext, nil)
	return sealedPayload, nil
}

// UnpackLen reads and authenticates a chunk's length field from r,
// returning the decoded payload length. It performs exactly one AEAD
// open and advances counter once.
func UnpackLen(r io.Reader, aead cipher.AEAD, counter *NonceCounter) (int, error) {
	overhead := aead.Overhead()
	buf := make([]byte, lenFieldSize+overhead)
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}

	plain, err := aead.Open(buf[:0], counter.Next(), buf, nil)
	if err != nil {
		return 0, &FramingError{Reason: "length tag verification failed", Err: err}
	}

	size := int(binary.BigEndian.Uint16(plain))
	if size < 1 || size > MaxPayloadSize {
		return 0, &FramingError{Reason: "chunk length out of range"}
	}
	return size, nil
}

// UnpackPayload reads and authenticates size+overhead bytes from r as
// a chunk payload, returning the decrypted plaintext in dst (or a
// freshly allocated buffer, if dst lacks capacity). It performs
// exactly one AEAD open and advances counter once.
//
// EOF encountered while reading the payload is reported as
// io.ErrUnexpectedEOF: a mid-chunk EOF is a protocol violation, never
// a clean end of stream (spec §4.6).
func UnpackPayload(dst []byte, r io.Reader, size int, aead cipher.AEAD, counter *NonceCounter) ([]byte, error) {
	overhead := aead.Overhead()
	total := size + overhead
	if cap(dst) < total {
		dst = make([]byte, total)
	}
	dst = dst[:total]

	if _, err := io.ReadFull(r, dst); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}

	plain, err := aead.Open(dst[:0], counter.Next(), dst, nil)
	if err != nil {
		return nil, &FramingError{Reason: "payload tag verification failed", Err: err}
	}
	return plain, nil
}
