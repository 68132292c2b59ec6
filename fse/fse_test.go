// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package fse

import (
	"bytes"
	"testing"

	"github.com/dsnet/entropy/bitstream"
	"github.com/dsnet/entropy/internal/testutil"
)

func encodeBytes(t *testing.T, input []byte) []byte {
	t.Helper()
	enc := NewEncoder(NewContextTable(256))
	for _, b := range input {
		enc.EncodeByte(0, b)
	}
	return enc.Finish()
}

func decodeBytes(t *testing.T, buf []byte, n int) []byte {
	t.Helper()
	dec := NewDecoder(bitstream.NewReader(buf), NewContextTable(256))
	out := make([]byte, n)
	for i := range out {
		b, err := dec.DecodeByte(0)
		if err != nil {
			t.Fatalf("DecodeByte(%d): %v", i, err)
		}
		out[i] = b
	}
	return out
}

// TestRoundTripScenario2 follows S2: a repeated 4-byte pattern round-trips
// bit-exactly through the coder.
func TestRoundTripScenario2(t *testing.T) {
	var input []byte
	for i := 0; i < 32; i++ {
		input = append(input, 0x00, 0xFF, 0x55, 0xAA)
	}
	coded := encodeBytes(t, input)
	got := decodeBytes(t, coded, len(input))
	if !bytes.Equal(got, input) {
		t.Fatalf("round trip mismatch:\n got  %x\n want %x", got, input)
	}
}

func TestRoundTripRandom(t *testing.T) {
	rnd := testutil.NewRand(3)
	for trial := 0; trial < 100; trial++ {
		n := rnd.Intn(500)
		input := rnd.Bytes(n)
		coded := encodeBytes(t, input)
		got := decodeBytes(t, coded, n)
		if !bytes.Equal(got, input) {
			t.Fatalf("trial %d: round trip mismatch:\n got  %x\n want %x", trial, got, input)
		}
	}
}

func TestRoundTripBitArray(t *testing.T) {
	rnd := testutil.NewRand(4)
	for trial := 0; trial < 100; trial++ {
		n := 1 + rnd.Intn(64)
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = rnd.Intn(2) == 1
		}
		enc := NewEncoder(NewContextTable(n))
		enc.EncodeBitArray(0, bits)
		coded := enc.Finish()

		dec := NewDecoder(bitstream.NewReader(coded), NewContextTable(n))
		got, err := dec.DecodeBitArray(0, n)
		if err != nil {
			t.Fatalf("trial %d: DecodeBitArray: %v", trial, err)
		}
		for i := range bits {
			if got[i] != bits[i] {
				t.Fatalf("trial %d: bit %d mismatch: got %v, want %v", trial, i, got[i], bits[i])
			}
		}
	}
}

func TestContextUpdateConverges(t *testing.T) {
	c := Context(initProb)
	for i := 0; i < 10000; i++ {
		c.update(true)
	}
	if c < 200 {
		t.Errorf("context failed to converge toward 1: got %d", c)
	}
	c = Context(initProb)
	for i := 0; i < 10000; i++ {
		c.update(false)
	}
	if c > 56 {
		t.Errorf("context failed to converge toward 0: got %d", c)
	}
}
