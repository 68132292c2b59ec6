// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package prefix implements a canonical prefix (Huffman) coder: tree
// construction from a frequency table, length-limited code generation
// with Kraft-inequality repair, canonical code assignment, a bit-wise
// decoder, and (in meta.go) the run-length/permutation table codec that
// makes the result compatible with DEFLATE and WebP-lossless bitstreams.
package prefix

import (
	"container/heap"
	"sort"

	"github.com/dsnet/entropy"
)

// Error is the wrapper type for errors specific to this package.
type Error struct {
	Kind entropy.Kind
	msg  string
}

func (e *Error) Error() string { return "prefix: " + e.msg }

func errInvalid(msg string) error { return &Error{Kind: entropy.InvalidInput, msg: msg} }
func errData(msg string) error    { return &Error{Kind: entropy.InvalidData, msg: msg} }

// Count is one (symbol, frequency) entry of a FrequencyTable.
type Count struct {
	Sym  uint16
	Freq uint32
}

// FrequencyTable lists symbols with a positive count. Callers need not
// pre-sort it; GenerateLengths sorts a copy by count descending, symbol
// ascending before building a tree.
type FrequencyTable []Count

// LengthTable holds a code length per symbol, indexed by symbol value,
// over an alphabet of some fixed size. A zero entry means the symbol is
// unused.
type LengthTable []uint8

// Code is one symbol's canonical prefix code.
type Code struct {
	Sym   uint16
	Value uint32
	Len   uint8
}

// huffNode is either a leaf (Sym >= 0) or an internal pairing of two
// children (Sym < 0).
type huffNode struct {
	sym         int32
	freq        uint32
	left, right *huffNode
	order       int // creation order, used only to break freq ties among internal nodes
}

// nodeHeap is a container/heap min-heap over huffNode, ordered so that at
// equal frequency an internal node is popped before a leaf: this is the
// tie-break rule locked down by the S1 scenario (see DESIGN.md).
type nodeHeap []*huffNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.freq != b.freq {
		return a.freq < b.freq
	}
	ai, bi := a.sym < 0, b.sym < 0
	if ai != bi {
		return ai
	}
	if ai {
		return a.order < b.order
	}
	return a.sym < b.sym
}
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(*huffNode)) }
func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

func sortByFreq(ft FrequencyTable) FrequencyTable {
	out := append(FrequencyTable(nil), ft...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Freq != out[j].Freq {
			return out[i].Freq > out[j].Freq
		}
		return out[i].Sym < out[j].Sym
	})
	return out
}

// buildTree constructs a Huffman tree over sorted (already frequency
// ordered) counts, repeatedly combining the two lowest-frequency nodes.
func buildTree(sorted FrequencyTable) *huffNode {
	if len(sorted) == 1 {
		return &huffNode{sym: int32(sorted[0].Sym), freq: sorted[0].Freq}
	}
	h := make(nodeHeap, len(sorted))
	for i, c := range sorted {
		h[i] = &huffNode{sym: int32(c.Sym), freq: c.Freq}
	}
	heap.Init(&h)
	order := 0
	for h.Len() > 1 {
		a := heap.Pop(&h).(*huffNode)
		b := heap.Pop(&h).(*huffNode)
		heap.Push(&h, &huffNode{sym: -1, freq: a.freq + b.freq, left: a, right: b, order: order})
		order++
	}
	return h[0]
}

// depthHistogram walks the tree and returns cnt, where cnt[l] is the
// number of leaves at depth l (cnt[0] is always 0; a single-leaf tree is
// reported at depth 1, never 0, per the "1 symbol yields length 1"
// invariant).
func depthHistogram(root *huffNode) []uint32 {
	cnt := make([]uint32, 2)
	var walk func(n *huffNode, depth int)
	walk = func(n *huffNode, depth int) {
		if n.sym >= 0 {
			if depth == 0 {
				depth = 1
			}
			for depth >= len(cnt) {
				cnt = append(cnt, 0)
			}
			cnt[depth]++
			return
		}
		walk(n.left, depth+1)
		walk(n.right, depth+1)
	}
	walk(root, 0)
	return cnt
}

// limitLengths repairs a depth histogram in place so that no length
// exceeds maxBits and the Kraft sum equals 2^maxBits exactly (a complete
// code), per the depth-histogram repair algorithm.
func limitLengths(cnt []uint32, maxBits int) []uint32 {
	for len(cnt) <= maxBits {
		cnt = append(cnt, 0)
	}
	for l := maxBits + 1; l < len(cnt); l++ {
		cnt[maxBits] += cnt[l]
		cnt[l] = 0
	}
	cnt = cnt[:maxBits+1]

	var total uint64
	for l := 1; l <= maxBits; l++ {
		total += uint64(cnt[l]) << uint(maxBits-l)
	}
	full := uint64(1) << uint(maxBits)
	for total > full {
		cnt[maxBits]--
		l := maxBits - 1
		for l > 0 && cnt[l] == 0 {
			l--
		}
		cnt[l]--
		cnt[l+1] += 2
		total--
	}
	return cnt
}

// GenerateLengths computes a length-limited canonical code-length table
// for freqs over an alphabet of the given size. maxBits must be in
// [1,16]. The degenerate case of a single distinct symbol yields length 1
// for that symbol, per the boundary invariant in spec.md §8.
func GenerateLengths(freqs FrequencyTable, alphabetSize int, maxBits uint8) (LengthTable, error) {
	if len(freqs) == 0 {
		return nil, errInvalid("empty frequency table")
	}
	if maxBits < 1 || maxBits > 16 {
		return nil, errInvalid("maxBits must be in [1,16]")
	}
	sorted := sortByFreq(freqs)
	lengths := make(LengthTable, alphabetSize)

	if len(sorted) == 1 {
		lengths[sorted[0].Sym] = 1
		return lengths, nil
	}

	root := buildTree(sorted)
	cnt := limitLengths(depthHistogram(root), int(maxBits))

	li := 0
	for l := 1; l < len(cnt); l++ {
		for k := uint32(0); k < cnt[l]; k++ {
			lengths[sorted[li].Sym] = uint8(l)
			li++
		}
	}
	return lengths, nil
}

// AssignCodes derives canonical codes from a LengthTable: symbols are
// ordered by (length ascending, symbol ascending), and each code is one
// greater than the last at the same length, left-shifted on every length
// increase. This is the standard canonical-code convention shared by
// DEFLATE and WebP-lossless, and is what makes GenerateLengths's output
// bit-compatible with both once run through the meta-table codec in
// meta.go.
func AssignCodes(lengths LengthTable) ([]Code, error) {
	type entry struct {
		sym uint16
		len uint8
	}
	var syms []entry
	for sym, l := range lengths {
		if l > 0 {
			syms = append(syms, entry{uint16(sym), l})
		}
	}
	if len(syms) == 0 {
		return nil, errInvalid("length table has no symbols")
	}
	sort.Slice(syms, func(i, j int) bool {
		if syms[i].len != syms[j].len {
			return syms[i].len < syms[j].len
		}
		return syms[i].sym < syms[j].sym
	})

	codes := make([]Code, len(syms))
	var acc uint32
	var last uint8
	for i, s := range syms {
		if s.len > last {
			acc <<= uint(s.len - last)
			last = s.len
		}
		codes[i] = Code{Sym: s.sym, Value: acc, Len: s.len}
		acc++
	}
	return codes, nil
}

// GenerateCodes is the composition of GenerateLengths and AssignCodes.
func GenerateCodes(freqs FrequencyTable, alphabetSize int, maxBits uint8) ([]Code, LengthTable, error) {
	lengths, err := GenerateLengths(freqs, alphabetSize, maxBits)
	if err != nil {
		return nil, nil, err
	}
	codes, err := AssignCodes(lengths)
	return codes, lengths, err
}

// reverseBits reverses the low n bits of v.
func reverseBits(v uint32, n uint8) uint32 {
	var out uint32
	for i := uint8(0); i < n; i++ {
		out = out<<1 | v&1
		v >>= 1
	}
	return out
}
