// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fse

import "github.com/dsnet/entropy"

// Error is the wrapper type for errors specific to this package.
type Error struct {
	Kind entropy.Kind
	msg  string
}

func (e *Error) Error() string { return "fse: " + e.msg }

// bitProb records one coded bit together with the probability in effect
// at the moment it was coded. The encoder buffers the whole sequence
// because renormalization must walk it from last bit to first.
type bitProb struct {
	bit  bool
	prob Context
}

// Encoder performs a forward pass collecting (bit, probability) pairs
// against a ContextTable, then renormalizes them into a byte stream on a
// second, reverse pass (Finish). This two-pass shape is inherent to a
// one-pass-per-symbol range coder whose carry propagates from the last
// coded bit backward.
type Encoder struct {
	bits     []bitProb
	contexts ContextTable
}

// NewEncoder returns an Encoder that adapts contexts in place. The table is
// owned by the Encoder for the remainder of its use.
func NewEncoder(contexts ContextTable) *Encoder {
	return &Encoder{contexts: contexts}
}

// EncodeBit codes a single bit against the context at index ctx, then
// updates that context.
func (e *Encoder) EncodeBit(ctx int, bit bool) {
	e.bits = append(e.bits, bitProb{bit: bit, prob: e.contexts[ctx]})
	e.contexts[ctx].update(bit)
}

// EncodeByte codes all 8 bits of value, most-significant first, into the
// binary context tree rooted at base: the root occupies base, and the
// index after coding bit b evolves as ctx = (ctx<<1)|b starting from 1, so
// the tree occupies contexts [base, base+255).
func (e *Encoder) EncodeByte(base int, value byte) {
	ctx := 1
	for i := 7; i >= 0; i-- {
		bit := (value>>uint(i))&1 == 1
		e.EncodeBit(base+ctx-1, bit)
		ctx = ctx<<1 | b2i(bit)
	}
}

// EncodeBitArray codes each bit of bits, in order, against its own linear
// context in [base, base+len(bits)).
func (e *Encoder) EncodeBitArray(base int, bits []bool) {
	for i, bit := range bits {
		e.EncodeBit(base+i, bit)
	}
}

// Finish renormalizes the buffered bits into a packed byte stream, most
// recently coded bit first, then reverses the stream so that a Decoder can
// consume it front-to-back. After Finish, the Encoder must not be reused.
func (e *Encoder) Finish() []byte {
	state := uint32(initState)
	var out []byte

	for i := len(e.bits) - 1; i >= 0; i-- {
		bit, prob := e.bits[i].bit, uint32(e.bits[i].prob)
		var start, p uint32
		if bit {
			start, p = 0, prob
		} else {
			start, p = prob, 256-prob
		}
		maxState := p << 12
		for state >= maxState {
			out = append(out, byte(state))
			state >>= 8
		}
		state = (state/p)<<8 + (state % p) + start
	}

	for state != 0 {
		out = append(out, byte(state))
		state >>= 8
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
