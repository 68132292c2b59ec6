// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package stats computes byte-frequency statistics over an input buffer and
// rescales them to a power-of-two total while preserving support (every
// byte value that occurred at least once keeps a nonzero scaled count).
package stats

import (
	"sort"

	"github.com/dsnet/entropy"
	"github.com/dsnet/entropy/bitstream"
)

// Error is the wrapper type for errors specific to this package.
type Error struct {
	Kind entropy.Kind
	msg  string
}

func (e *Error) Error() string { return "stats: " + e.msg }

// ByteStats holds per-symbol frequency counts over the 256 possible byte
// values, along with a descending-frequency ordering and cumulative sums.
type ByteStats struct {
	freqs       [256]uint32
	sortedFreqs [256]uint32
	sortedSyms  [256]uint8
	cumulFreqs  [257]uint32
	totalCount  uint32
	symbolCount int
	maxSymbol   uint8
	maxFreq     uint32
	minFreq     uint32
}

// New computes the byte statistics of input. It reports InvalidInput if
// input is empty.
func New(input []byte) (*ByteStats, error) {
	if len(input) == 0 {
		return nil, &Error{Kind: entropy.InvalidInput, msg: "empty input has no statistics"}
	}
	s := new(ByteStats)
	for _, b := range input {
		s.freqs[b]++
	}
	s.sort()
	return s, nil
}

// WithCustomTable builds a ByteStats directly from a 256-entry frequency
// table, for callers that already maintain their own counts (e.g. an
// incremental encoder).
func WithCustomTable(table [256]uint32) *ByteStats {
	s := new(ByteStats)
	s.freqs = table
	s.sort()
	return s
}

func (s *ByteStats) sort() {
	type pair struct {
		sym  uint8
		freq uint32
	}
	s.sortedFreqs = [256]uint32{}
	s.sortedSyms = [256]uint8{}
	s.totalCount, s.symbolCount, s.maxSymbol, s.maxFreq, s.minFreq = 0, 0, 0, 0, 0

	var pairs []pair
	for sym := 0; sym < 256; sym++ {
		if s.freqs[sym] > 0 {
			pairs = append(pairs, pair{uint8(sym), s.freqs[sym]})
			if uint8(sym) > s.maxSymbol {
				s.maxSymbol = uint8(sym)
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].freq != pairs[j].freq {
			return pairs[i].freq > pairs[j].freq
		}
		return pairs[i].sym < pairs[j].sym
	})
	s.minFreq = ^uint32(0)
	for i, p := range pairs {
		s.sortedFreqs[i] = p.freq
		s.sortedSyms[i] = p.sym
		s.totalCount += p.freq
		if p.freq > s.maxFreq {
			s.maxFreq = p.freq
		}
		if p.freq < s.minFreq {
			s.minFreq = p.freq
		}
	}
	s.symbolCount = len(pairs)
	if s.symbolCount == 0 {
		s.minFreq = 0
	}
	s.updateCumul()
}

func (s *ByteStats) updateCumul() uint32 {
	s.cumulFreqs[0] = 0
	for i := 0; i < 256; i++ {
		s.cumulFreqs[i+1] = s.cumulFreqs[i] + s.freqs[i]
	}
	return s.cumulFreqs[256]
}

// Freq returns the raw count of value.
func (s *ByteStats) Freq(value uint8) uint32 { return s.freqs[value] }

// Freqs returns the raw per-symbol counts, indexed by byte value.
func (s *ByteStats) Freqs() *[256]uint32 { return &s.freqs }

// Cumul returns the cumulative count up to (not including) value.
func (s *ByteStats) Cumul(value uint8) uint32 { return s.cumulFreqs[value] }

// Cumuls returns the 257-entry cumulative count table.
func (s *ByteStats) Cumuls() *[257]uint32 { return &s.cumulFreqs }

// TotalCount returns the sum of all counts.
func (s *ByteStats) TotalCount() uint32 { return s.totalCount }

// SymbolCount returns the number of distinct byte values with nonzero count.
func (s *ByteStats) SymbolCount() int { return s.symbolCount }

// MaxSymbol returns the largest byte value with nonzero count.
func (s *ByteStats) MaxSymbol() uint8 { return s.maxSymbol }

// MaxFreq returns the largest per-symbol count.
func (s *ByteStats) MaxFreq() uint32 { return s.maxFreq }

// MinFreq returns the smallest nonzero per-symbol count.
func (s *ByteStats) MinFreq() uint32 { return s.minFreq }

// Sorted returns the (symbol, freq) pairs with nonzero count, ordered by
// count descending then symbol ascending.
func (s *ByteStats) Sorted() []struct {
	Sym  uint8
	Freq uint32
} {
	out := make([]struct {
		Sym  uint8
		Freq uint32
	}, s.symbolCount)
	for i := 0; i < s.symbolCount; i++ {
		out[i].Sym = s.sortedSyms[i]
		out[i].Freq = s.sortedFreqs[i]
	}
	return out
}

// Normalize rescales counts so that they sum exactly to target, which must
// be a power of two. Any byte value with an original nonzero count is
// guaranteed to retain a nonzero scaled count; InvalidInput is reported if
// no donor symbol is available to satisfy that guarantee.
func (s *ByteStats) Normalize(target uint32) error {
	if target == 0 || target != bitstream.NearestPowerOfTwo(target) {
		return &Error{Kind: entropy.InvalidInput, msg: "normalization target must be a power of two"}
	}
	curTotal := s.updateCumul()
	if curTotal == 0 {
		return &Error{Kind: entropy.InvalidInput, msg: "cannot normalize an empty table"}
	}

	for i := 1; i <= 256; i++ {
		s.cumulFreqs[i] = uint32(uint64(target) * uint64(s.cumulFreqs[i]) / uint64(curTotal))
	}

	var freqs2 [256]uint32
	var acc uint32
	for i := 0; i < 256; i++ {
		v := s.cumulFreqs[i+1]
		freqs2[i] = v - acc
		acc = v
	}

	for i := 0; i < 256; i++ {
		if s.freqs[i] > 0 && freqs2[i] == 0 {
			bestFreq := ^uint32(0)
			bestSteal := -1
			for j := 0; j < 256; j++ {
				f := freqs2[j]
				if f > 1 && f < bestFreq {
					bestFreq = f
					bestSteal = j
				}
			}
			if bestSteal < 0 {
				return &Error{Kind: entropy.InvalidInput, msg: "no donor symbol available to normalize"}
			}
			freqs2[i] = 1
			freqs2[bestSteal]--
		}
	}

	s.freqs = freqs2
	s.updateCumul()
	s.sort()
	return nil
}
