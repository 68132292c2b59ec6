// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import "github.com/dsnet/entropy/bitstream"

// Table indexes a set of canonical codes by symbol, for encoding.
type Table struct {
	codes  map[uint16]Code
	single *Code // set when the alphabet has exactly one used symbol
}

// NewTable builds an encode-side Table from codes produced by AssignCodes
// or GenerateCodes.
func NewTable(codes []Code) (*Table, error) {
	if len(codes) == 0 {
		return nil, errInvalid("empty code table")
	}
	t := &Table{codes: make(map[uint16]Code, len(codes))}
	for _, c := range codes {
		t.codes[c.Sym] = c
	}
	if len(codes) == 1 {
		c := codes[0]
		t.single = &c
	}
	return t, nil
}

// WriteSymbol emits sym's canonical code to w, bit-reversed so that an
// MSB-first canonical value lands correctly in the writer's LSB-first
// packing (the convention noted in spec.md §9). A single-symbol table
// emits no bits at all, since the decoder needs none to identify the
// symbol.
func (t *Table) WriteSymbol(w *bitstream.Writer, sym uint16) error {
	if t.single != nil {
		if t.single.Sym != sym {
			return errInvalid("symbol not present in table")
		}
		return nil
	}
	c, ok := t.codes[sym]
	if !ok {
		return errInvalid("symbol not present in table")
	}
	w.Push(bitstream.Value{Width: bitstream.Width(c.Len), Value: reverseBits(c.Value, c.Len)})
	return nil
}

// Decoder performs the textbook canonical-Huffman bit-wise walk: bits are
// read one at a time and looked up against (length, accumulated value)
// until a match is found or the longest known length is exceeded.
type Decoder struct {
	table          map[decodeKey]uint16
	minLen, maxLen uint8
	single         *uint16
}

type decodeKey struct {
	length uint8
	value  uint32
}

// NewDecoder builds a decode-side Decoder from the same codes passed to
// NewTable.
func NewDecoder(codes []Code) (*Decoder, error) {
	if len(codes) == 0 {
		return nil, errInvalid("empty code table")
	}
	if len(codes) == 1 {
		sym := codes[0].Sym
		return &Decoder{single: &sym}, nil
	}
	d := &Decoder{table: make(map[decodeKey]uint16, len(codes)), minLen: 255}
	for _, c := range codes {
		d.table[decodeKey{c.Len, c.Value}] = c.Sym
		if c.Len < d.minLen {
			d.minLen = c.Len
		}
		if c.Len > d.maxLen {
			d.maxLen = c.Len
		}
	}
	return d, nil
}

// ReadSymbol decodes one symbol from r.
func (d *Decoder) ReadSymbol(r *bitstream.Reader) (uint16, error) {
	if d.single != nil {
		return *d.single, nil
	}
	var val uint32
	for i := uint8(0); i < d.minLen; i++ {
		bit, err := r.Read(1)
		if err != nil {
			return 0, errData(err.Error())
		}
		val = val<<1 | bit
	}
	length := d.minLen
	for {
		if sym, ok := d.table[decodeKey{length, val}]; ok {
			return sym, nil
		}
		if length >= d.maxLen {
			return 0, errData("no matching prefix code")
		}
		bit, err := r.Read(1)
		if err != nil {
			return 0, errData(err.Error())
		}
		val = val<<1 | bit
		length++
	}
}
