// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fse

import (
	"io"

	"github.com/dsnet/entropy"
)

// Decoder mirrors Encoder: it holds a 32-bit range state and a
// ContextTable, refilling its state from a byte source on demand.
type Decoder struct {
	state    uint32
	contexts ContextTable
	r        io.ByteReader
}

// NewDecoder returns a Decoder reading from r and adapting contexts in
// place; contexts must start in the same state the paired Encoder started
// in (ordinarily NewContextTable's all-0.5 initialization).
func NewDecoder(r io.ByteReader, contexts ContextTable) *Decoder {
	return &Decoder{r: r, contexts: contexts}
}

// refill shifts in bytes from the source until state satisfies the range
// coder's invariant (state >= initState), which always leaves enough
// precision for the next decode step.
func (d *Decoder) refill() error {
	for d.state < initState {
		b, err := d.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return &Error{Kind: entropy.InvalidData, msg: "unexpected end of coded stream: " + err.Error()}
		}
		d.state = d.state<<8 | uint32(b)
	}
	return nil
}

// DecodeBit decodes one bit against the context at index ctx, updates that
// context with the decoded value, and returns it.
func (d *Decoder) DecodeBit(ctx int) (bool, error) {
	if err := d.refill(); err != nil {
		return false, err
	}
	p := uint32(d.contexts[ctx])
	bit := d.state&0xff < p
	if bit {
		d.state = p*(d.state>>8) + d.state&0xff
	} else {
		d.state = (256-p)*(d.state>>8) + d.state&0xff - p
	}
	d.contexts[ctx].update(bit)
	return bit, nil
}

// DecodeByte decodes 8 bits against the binary context tree rooted at
// base, mirroring Encoder.EncodeByte.
func (d *Decoder) DecodeByte(base int) (byte, error) {
	ctx := 1
	for i := 0; i < 8; i++ {
		bit, err := d.DecodeBit(base + ctx - 1)
		if err != nil {
			return 0, err
		}
		ctx = ctx<<1 | b2i(bit)
	}
	return byte(ctx & 0xff), nil
}

// DecodeBitArray decodes n bits against the linear contexts in
// [base, base+n), mirroring Encoder.EncodeBitArray.
func (d *Decoder) DecodeBitArray(base, n int) ([]bool, error) {
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		bit, err := d.DecodeBit(base + i)
		if err != nil {
			return nil, err
		}
		out[i] = bit
	}
	return out, nil
}
