// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package stats

import (
	"testing"

	"github.com/dsnet/entropy/internal/testutil"
)

func TestBasicCounts(t *testing.T) {
	s, err := New([]byte("abracadabra"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := map[byte]uint32{'a': 5, 'b': 2, 'r': 2, 'c': 1, 'd': 1}
	for sym, freq := range want {
		if got := s.Freq(sym); got != freq {
			t.Errorf("Freq(%q) = %d, want %d", sym, got, freq)
		}
	}
	if s.TotalCount() != 11 {
		t.Errorf("TotalCount() = %d, want 11", s.TotalCount())
	}
	if s.SymbolCount() != 5 {
		t.Errorf("SymbolCount() = %d, want 5", s.SymbolCount())
	}
	sorted := s.Sorted()
	if sorted[0].Sym != 'a' || sorted[0].Freq != 5 {
		t.Errorf("Sorted()[0] = %+v, want a:5", sorted[0])
	}
}

func TestEmptyInput(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("New(nil): expected error")
	}
}

// TestNormalizeScenario5 follows S5: normalize {A:1000, B:1, C:1} to T=16;
// both B and C must retain freq >= 1, and A receives the remainder.
func TestNormalizeScenario5(t *testing.T) {
	var table [256]uint32
	table['A'] = 1000
	table['B'] = 1
	table['C'] = 1
	s := WithCustomTable(table)
	if err := s.Normalize(16); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if s.Freq('B') == 0 || s.Freq('C') == 0 {
		t.Errorf("Freq(B)=%d Freq(C)=%d, want both >= 1", s.Freq('B'), s.Freq('C'))
	}
	var sum uint32
	for _, f := range s.freqs {
		sum += f
	}
	if sum != 16 {
		t.Errorf("sum of scaled frequencies = %d, want 16", sum)
	}
}

func TestNormalizeRoundTripProperties(t *testing.T) {
	rnd := testutil.NewRand(2)
	for trial := 0; trial < 200; trial++ {
		n := 1 + rnd.Intn(2000)
		buf := rnd.Bytes(n)
		s, err := New(buf)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		positive := map[byte]bool{}
		for i := 0; i < 256; i++ {
			if s.Freqs()[i] > 0 {
				positive[byte(i)] = true
			}
		}
		target := uint32(1 << uint(1+rnd.Intn(8)))
		if err := s.Normalize(target); err != nil {
			continue // not every random input has a valid donor; skip
		}
		var sum uint32
		for i := 0; i < 256; i++ {
			f := s.Freqs()[i]
			sum += f
			if positive[byte(i)] && f == 0 {
				t.Fatalf("trial %d: symbol %d lost support after normalize", trial, i)
			}
		}
		if sum != target {
			t.Fatalf("trial %d: normalized sum = %d, want %d", trial, sum, target)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	var table [256]uint32
	table['x'] = 8
	table['y'] = 8
	s := WithCustomTable(table)
	if err := s.Normalize(16); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	before := *s.Freqs()
	if err := s.Normalize(16); err != nil {
		t.Fatalf("second Normalize: %v", err)
	}
	after := *s.Freqs()
	if before != after {
		t.Errorf("Normalize was not idempotent when already at target: before=%v after=%v", before, after)
	}
}
