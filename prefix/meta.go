// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import "github.com/dsnet/golib/bits"

// Flavor selects the permutation order used when serializing a
// meta-alphabet length header, matching either the DEFLATE or the
// WebP-lossless bitstream convention.
type Flavor int

const (
	DEFLATE Flavor = iota
	WebP
)

// metaAlphabetSize is the number of symbols in the RLE meta-alphabet:
// literal lengths 0..15 plus the three repeat codes 16, 17, 18. (The
// permutation orders below, taken from the DEFLATE and WebP-lossless
// bitstream specifications, each have exactly 19 entries; this toolkit
// follows that ground truth over spec.md's rounder "20-symbol" figure.)
const metaAlphabetSize = 19

var orderDeflate = [metaAlphabetSize]uint8{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

var orderWebP = [metaAlphabetSize]uint8{
	17, 18, 0, 1, 2, 3, 4, 5, 16, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

func (f Flavor) order() []uint8 {
	if f == WebP {
		return orderWebP[:]
	}
	return orderDeflate[:]
}

const (
	repLastSym  = 16
	repZeroSym  = 17
	repZeroSym2 = 18

	repLastMin, repLastMax = 3, 6
	repZeroMin, repZeroMax = 3, 10
	repZero2Min, repZero2Max = 11, 138

	initPrevLen = 8
)

// rleToken is one emitted meta-alphabet symbol, plus whatever extra bits
// (if any) accompany it.
type rleToken struct {
	sym   uint8
	extra uint32
	bits  uint8
}

// encodeRLE compacts a sequence of code lengths using the 19-symbol
// meta-alphabet, greedily preferring the longest applicable repeat code
// at each position, exactly as spec.md §4.5.6 describes.
func encodeRLE(lens []uint8) []rleToken {
	var toks []rleToken
	prev := uint8(initPrevLen)
	n := len(lens)
	for i := 0; i < n; {
		cur := lens[i]
		runLen := 1
		for i+runLen < n && lens[i+runLen] == cur {
			runLen++
		}

		switch {
		case cur != 0 && cur == prev && runLen >= repLastMin:
			rep := runLen
			if rep > repLastMax {
				rep = repLastMax
			}
			toks = append(toks, rleToken{sym: repLastSym, extra: uint32(rep - repLastMin), bits: 2})
			i += rep
		case cur == 0 && runLen >= repZero2Min:
			rep := runLen
			if rep > repZero2Max {
				rep = repZero2Max
			}
			toks = append(toks, rleToken{sym: repZeroSym2, extra: uint32(rep - repZero2Min), bits: 7})
			i += rep
		case cur == 0 && runLen >= repZeroMin:
			rep := runLen
			if rep > repZeroMax {
				rep = repZeroMax
			}
			toks = append(toks, rleToken{sym: repZeroSym, extra: uint32(rep - repZeroMin), bits: 3})
			i += rep
		default:
			toks = append(toks, rleToken{sym: cur})
			if cur != 0 {
				prev = cur
			}
			i++
		}
	}
	return toks
}

// decodeRLE expands a flat stream of (symbol, extra) pairs, produced by
// the caller reading the sub-Huffman code, back into total code lengths.
func decodeRLE(read func() (sym uint16, extra uint32, err error), total int) ([]uint8, error) {
	out := make([]uint8, 0, total)
	prev := uint8(initPrevLen)
	for len(out) < total {
		sym, extra, err := read()
		if err != nil {
			return nil, err
		}
		switch {
		case sym <= 15:
			out = append(out, uint8(sym))
			if sym != 0 {
				prev = uint8(sym)
			}
		case sym == repLastSym:
			rep := int(extra) + repLastMin
			for k := 0; k < rep && len(out) < total; k++ {
				out = append(out, prev)
			}
		case sym == repZeroSym:
			rep := int(extra) + repZeroMin
			for k := 0; k < rep && len(out) < total; k++ {
				out = append(out, 0)
			}
		case sym == repZeroSym2:
			rep := int(extra) + repZero2Min
			for k := 0; k < rep && len(out) < total; k++ {
				out = append(out, 0)
			}
		default:
			return nil, errData("unknown meta-alphabet symbol")
		}
	}
	return out, nil
}

func extraBitsFor(sym uint8) uint8 {
	switch sym {
	case repLastSym:
		return 2
	case repZeroSym:
		return 3
	case repZeroSym2:
		return 7
	default:
		return 0
	}
}

// buildMetaTable builds the sub-Huffman code over the RLE token stream's
// symbol frequencies.
func buildMetaTable(toks []rleToken) ([]Code, LengthTable, error) {
	var counts [metaAlphabetSize]uint32
	for _, tk := range toks {
		counts[tk.sym]++
	}
	var freqs FrequencyTable
	for sym, c := range counts {
		if c > 0 {
			freqs = append(freqs, Count{Sym: uint16(sym), Freq: c})
		}
	}
	return GenerateCodes(freqs, metaAlphabetSize, 7)
}

// writeMetaSymbol emits sym's canonical code from t, one bit at a time via
// bw, matching the bit-at-a-time style of xflate/meta/huffman.go's
// encodeSym. A single-symbol table emits no bits.
func writeMetaSymbol(bw bits.BitsWriter, t *Table, sym uint16) error {
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
	for i := int(c.Len) - 1; i >= 0; i-- {
		bit := (c.Value >> uint(i)) & 1
		if _, err := bw.WriteBits(uint(bit), 1); err != nil {
			return err
		}
	}
	return nil
}

// readMetaSymbol is writeMetaSymbol's inverse: the textbook canonical-
// Huffman bit-wise walk, reading one bit at a time from br via ReadBits(1),
// as xflate/meta/huffman.go's decodeSym does for its own fixed alphabet.
func readMetaSymbol(br bits.BitsReader, d *Decoder) (uint16, error) {
	if d.single != nil {
		return *d.single, nil
	}
	var val uint32
	var length uint8
	for {
		bit, _, err := br.ReadBits(1)
		if err != nil {
			return 0, errData(err.Error())
		}
		val = val<<1 | uint32(bit)
		length++
		if sym, ok := d.table[decodeKey{length, uint32(val)}]; ok {
			return sym, nil
		}
		if length >= d.maxLen {
			return 0, errData("no matching prefix code")
		}
	}
}

func writeBitsField(bw bits.BitsWriter, value uint32, nbits int) error {
	_, err := bw.WriteBits(uint(value), nbits)
	return err
}

func readBitsField(br bits.BitsReader, nbits int) (uint32, error) {
	v, _, err := br.ReadBits(nbits)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func encodeMetaHeader(bw bits.BitsWriter, subLengths LengthTable, order []uint8) error {
	maxIndex := 3
	for i := len(order) - 1; i >= 0; i-- {
		if subLengths[order[i]] != 0 {
			if i > maxIndex {
				maxIndex = i
			}
			break
		}
	}
	if err := writeBitsField(bw, uint32(maxIndex-3), 4); err != nil {
		return err
	}
	for i := 0; i <= maxIndex; i++ {
		if err := writeBitsField(bw, uint32(subLengths[order[i]]), 3); err != nil {
			return err
		}
	}
	return nil
}

func decodeMetaHeader(br bits.BitsReader, order []uint8) (LengthTable, error) {
	hclen, err := readBitsField(br, 4)
	if err != nil {
		return nil, errData(err.Error())
	}
	maxIndex := int(hclen) + 3
	if maxIndex >= len(order) {
		return nil, errData("hclen field out of range")
	}
	subLengths := make(LengthTable, metaAlphabetSize)
	for i := 0; i <= maxIndex; i++ {
		v, err := readBitsField(br, 3)
		if err != nil {
			return nil, errData(err.Error())
		}
		subLengths[order[i]] = uint8(v)
	}
	return subLengths, nil
}

// EncodeTables serializes one or more code-length tables (e.g. DEFLATE's
// literal/length and distance tables, concatenated) into the meta-Huffman
// wire format described in spec.md §4.5.6 and §6.
func EncodeTables(tables []LengthTable, flavor Flavor) ([]byte, error) {
	var allLens []uint8
	for _, t := range tables {
		allLens = append(allLens, t...)
	}
	if len(allLens) == 0 {
		return nil, errInvalid("no code lengths to encode")
	}
	toks := encodeRLE(allLens)

	subCodes, subLengths, err := buildMetaTable(toks)
	if err != nil {
		return nil, err
	}
	subTable, err := NewTable(subCodes)
	if err != nil {
		return nil, err
	}

	bw := bits.NewBuffer(nil)
	if err := encodeMetaHeader(bw, subLengths, flavor.order()); err != nil {
		return nil, err
	}
	for _, tk := range toks {
		if err := writeMetaSymbol(bw, subTable, uint16(tk.sym)); err != nil {
			return nil, err
		}
		if tk.bits > 0 {
			if err := writeBitsField(bw, tk.extra, int(tk.bits)); err != nil {
				return nil, err
			}
		}
	}
	return bw.Bytes(), nil
}

// DecodeTables is the inverse of EncodeTables: sizes gives the number of
// symbols in each output table, in the same order they were concatenated
// for encoding (ordinarily known to the caller from its own container
// framing, e.g. DEFLATE's HLIT/HDIST fields).
func DecodeTables(data []byte, flavor Flavor, sizes []int) ([]LengthTable, error) {
	br := bits.NewBuffer(data)
	order := flavor.order()

	subLengths, err := decodeMetaHeader(br, order)
	if err != nil {
		return nil, err
	}
	subCodes, err := AssignCodes(subLengths)
	if err != nil {
		return nil, err
	}
	dec, err := NewDecoder(subCodes)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range sizes {
		total += n
	}
	read := func() (uint16, uint32, error) {
		sym, err := readMetaSymbol(br, dec)
		if err != nil {
			return 0, 0, err
		}
		extraWidth := extraBitsFor(uint8(sym))
		if extraWidth == 0 {
			return sym, 0, nil
		}
		extra, err := readBitsField(br, int(extraWidth))
		if err != nil {
			return 0, 0, errData(err.Error())
		}
		return sym, extra, nil
	}
	allLens, err := decodeRLE(read, total)
	if err != nil {
		return nil, err
	}

	tables := make([]LengthTable, len(sizes))
	off := 0
	for i, n := range sizes {
		tables[i] = LengthTable(allLens[off : off+n])
		off += n
	}
	return tables, nil
}

// EncodeDEFLATE encodes tables using the DEFLATE permutation order.
func EncodeDEFLATE(tables []LengthTable) ([]byte, error) { return EncodeTables(tables, DEFLATE) }

// DecodeDEFLATE decodes a DEFLATE-flavored meta-Huffman header.
func DecodeDEFLATE(data []byte, sizes []int) ([]LengthTable, error) {
	return DecodeTables(data, DEFLATE, sizes)
}

// EncodeWebP encodes tables using the WebP-lossless permutation order.
func EncodeWebP(tables []LengthTable) ([]byte, error) { return EncodeTables(tables, WebP) }

// DecodeWebP decodes a WebP-flavored meta-Huffman header.
func DecodeWebP(data []byte, sizes []int) ([]LengthTable, error) {
	return DecodeTables(data, WebP, sizes)
}
