// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package simple implements a fast-path coder for byte slices that use at
// most two distinct values: a constant run, or a bitmap choosing between
// two bytes. When the bitmap itself happens to be low-entropy, one level
// of the same trick can be applied to the bitmap, so the scheme nests one
// level deep.
package simple

import "github.com/dsnet/entropy"

// Error is the wrapper type for errors specific to this package.
type Error struct {
	Kind entropy.Kind
	msg  string
}

func (e *Error) Error() string { return "simple: " + e.msg }

func errInvalid(msg string) error { return &Error{Kind: entropy.InvalidInput, msg: msg} }
func errData(msg string) error    { return &Error{Kind: entropy.InvalidData, msg: msg} }

// Kind identifies which of the four table shapes a Coder uses. Its value
// is also the wire tag byte written by Bytes and read by Parse.
type Kind uint8

const (
	Repeat Kind = iota
	Binary
	NestedRepeat
	NestedBinary
)

// Coder is an encoded two-symbol (or nested two-symbol) byte sequence.
// Keys holds however many key bytes Kind uses (1, 2, 3, or 4); Len is the
// number of original bytes represented, carried alongside since nothing
// in the wire format otherwise bounds the final bitmap's bit count.
type Coder struct {
	Kind Kind
	Keys [4]byte
	Data []byte
	Len  int
}

// Encode attempts to represent input as a Coder. It returns ok=false when
// input uses more than two distinct byte values (not representable by
// this scheme) or is empty. When allowNest is true and the first-level
// bitmap is at least 4 bytes, Encode recurses once on the bitmap itself.
func Encode(input []byte, allowNest bool) (c *Coder, ok bool) {
	var freq [256]uint32
	for _, b := range input {
		freq[b]++
	}

	key1, key2 := -1, -1
	for i, f := range freq {
		if f == 0 {
			continue
		}
		switch {
		case key1 < 0:
			key1 = i
		case key2 < 0:
			key2 = i
		default:
			return nil, false
		}
	}
	if key1 < 0 {
		return nil, false
	}
	if key2 < 0 {
		return &Coder{Kind: Repeat, Keys: [4]byte{byte(key1)}, Len: len(input)}, true
	}

	data := packBits(input, byte(key2))
	c = &Coder{Kind: Binary, Keys: [4]byte{byte(key1), byte(key2)}, Data: data, Len: len(input)}

	if allowNest && len(data) >= 4 {
		if nested, ok := Encode(data, false); ok {
			switch nested.Kind {
			case Repeat:
				c.Kind = NestedRepeat
				c.Keys = [4]byte{byte(key1), byte(key2), nested.Keys[0]}
				c.Data = nil
			case Binary:
				c.Kind = NestedBinary
				c.Keys = [4]byte{byte(key1), byte(key2), nested.Keys[0], nested.Keys[1]}
				c.Data = nested.Data
			}
		}
	}
	return c, true
}

// packBits produces one bit per input byte, set when that byte equals
// key2, packed LSB-first into bytes.
func packBits(input []byte, key2 byte) []byte {
	out := make([]byte, 0, (len(input)+7)/8)
	var acc byte
	var bit byte = 0x01
	for _, b := range input {
		if b == key2 {
			acc |= bit
		}
		if bit == 0x80 {
			out = append(out, acc)
			acc = 0
			bit = 0x01
		} else {
			bit <<= 1
		}
	}
	if bit != 0x01 {
		out = append(out, acc)
	}
	return out
}

// unpackBits is packBits's inverse, producing n bytes chosen between lo
// and hi according to the bits of data.
func unpackBits(data []byte, n int, lo, hi byte) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		bit := (data[i/8] >> uint(i%8)) & 1
		if bit == 1 {
			out[i] = hi
		} else {
			out[i] = lo
		}
	}
	return out
}

// Decode reconstructs the original byte sequence from c.
func (c *Coder) Decode() []byte {
	switch c.Kind {
	case Repeat:
		out := make([]byte, c.Len)
		for i := range out {
			out[i] = c.Keys[0]
		}
		return out
	case Binary:
		return unpackBits(c.Data, c.Len, c.Keys[0], c.Keys[1])
	case NestedRepeat:
		nBitmap := (c.Len + 7) / 8
		bitmap := make([]byte, nBitmap)
		for i := range bitmap {
			bitmap[i] = c.Keys[2]
		}
		return unpackBits(bitmap, c.Len, c.Keys[0], c.Keys[1])
	case NestedBinary:
		nBitmap := (c.Len + 7) / 8
		bitmap := unpackBits(c.Data, nBitmap, c.Keys[2], c.Keys[3])
		return unpackBits(bitmap, c.Len, c.Keys[0], c.Keys[1])
	default:
		return nil
	}
}

// Bytes serializes c as a tag byte, its key bytes, then any bitmap data.
// The decoded length is not included; a caller needs it from outside
// framing (a container length field, say) to call Parse.
func (c *Coder) Bytes() []byte {
	switch c.Kind {
	case Repeat:
		return []byte{byte(Repeat), c.Keys[0]}
	case Binary:
		out := append([]byte{byte(Binary), c.Keys[0], c.Keys[1]}, c.Data...)
		return out
	case NestedRepeat:
		return []byte{byte(NestedRepeat), c.Keys[0], c.Keys[1], c.Keys[2]}
	case NestedBinary:
		out := append([]byte{byte(NestedBinary), c.Keys[0], c.Keys[1], c.Keys[2], c.Keys[3]}, c.Data...)
		return out
	default:
		return nil
	}
}

// Parse is Bytes's inverse, given the originally encoded length.
func Parse(raw []byte, length int) (*Coder, error) {
	if len(raw) == 0 {
		return nil, errInvalid("empty input")
	}
	if length < 0 {
		return nil, errInvalid("negative length")
	}
	switch Kind(raw[0]) {
	case Repeat:
		if len(raw) < 2 {
			return nil, errData("truncated repeat table")
		}
		return &Coder{Kind: Repeat, Keys: [4]byte{raw[1]}, Len: length}, nil
	case Binary:
		if len(raw) < 3 {
			return nil, errData("truncated binary table")
		}
		want := (length + 7) / 8
		data := raw[3:]
		if len(data) < want {
			return nil, errData("bitmap data shorter than length implies")
		}
		return &Coder{Kind: Binary, Keys: [4]byte{raw[1], raw[2]}, Data: data[:want], Len: length}, nil
	case NestedRepeat:
		if len(raw) < 4 {
			return nil, errData("truncated nested-repeat table")
		}
		return &Coder{Kind: NestedRepeat, Keys: [4]byte{raw[1], raw[2], raw[3]}, Len: length}, nil
	case NestedBinary:
		if len(raw) < 5 {
			return nil, errData("truncated nested-binary table")
		}
		nBitmap := (length + 7) / 8
		want := (nBitmap + 7) / 8
		data := raw[5:]
		if len(data) < want {
			return nil, errData("bitmap data shorter than length implies")
		}
		return &Coder{Kind: NestedBinary, Keys: [4]byte{raw[1], raw[2], raw[3], raw[4]}, Data: data[:want], Len: length}, nil
	default:
		return nil, errData("unknown tag byte")
	}
}
