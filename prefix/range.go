// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import "github.com/dsnet/entropy/bitstream"

// RangeCode maps one symbol to a base value and a count of extra bits
// read verbatim (LSB-first) and added to that base, the scheme DEFLATE
// uses for length and distance symbols beyond the prefix code itself.
type RangeCode struct {
	Base uint32
	Len  uint8 // number of extra bits
}

// RangeCodes is an ordered list of RangeCode, one per symbol index.
type RangeCodes []RangeCode

// MakeRangeCodes builds a RangeCodes table from a list of extra-bit
// counts: symbol i covers [base_i, base_i+2^lens[i]), with base values
// computed cumulatively starting at base.
func MakeRangeCodes(base uint32, lens []uint) RangeCodes {
	rc := make(RangeCodes, len(lens))
	for i, l := range lens {
		rc[i] = RangeCode{Base: base, Len: uint8(l)}
		base += 1 << l
	}
	return rc
}

// RangeEncoder maps an input value to the (symbol index, extra bits)
// pair that RangeCodes describes. It does not write the extra bits
// itself; Find returns them for the caller to write.
type RangeEncoder struct {
	ranges RangeCodes
}

// NewRangeEncoder returns a RangeEncoder over ranges, which must be
// sorted by ascending Base with no gaps or overlaps.
func NewRangeEncoder(ranges RangeCodes) *RangeEncoder {
	return &RangeEncoder{ranges: ranges}
}

// Find returns the symbol index covering value and the extra bits to
// write alongside its prefix code.
func (e *RangeEncoder) Find(value uint32) (sym int, extra bitstream.Value, err error) {
	for i := len(e.ranges) - 1; i >= 0; i-- {
		if value >= e.ranges[i].Base {
			width := e.ranges[i].Len
			if width == 0 {
				return i, bitstream.Value{}, nil
			}
			return i, bitstream.Value{Width: bitstream.Width(width), Value: value - e.ranges[i].Base}, nil
		}
	}
	return 0, bitstream.Value{}, errInvalid("value below range of table")
}

// Value reconstructs the decoded value for sym given its extra bits.
func (rc RangeCodes) Value(sym int, extra uint32) (uint32, error) {
	if sym < 0 || sym >= len(rc) {
		return 0, errData("range symbol out of bounds")
	}
	return rc[sym].Base + extra, nil
}
