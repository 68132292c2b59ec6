// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

package prefix

import (
	"reflect"
	"testing"

	"github.com/dsnet/entropy/internal/testutil"
)

// TestEncodeRLEScenario3 follows S3: a length table with two runs of
// identical nonzero values and a long run of zeros should compact down
// to a literal 3, a repeat-last token for the other three 3s, one
// repeat-zero token for the eleven zeros, then a second repeat-last token
// for the final three 3s.
func TestEncodeRLEScenario3(t *testing.T) {
	lens := []uint8{3, 3, 3, 3, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3, 3, 3}
	toks := encodeRLE(lens)

	if len(toks) == 0 {
		t.Fatal("encodeRLE produced no tokens")
	}
	if toks[0].sym != 3 {
		t.Fatalf("toks[0].sym = %d, want 3 (literal)", toks[0].sym)
	}
	if toks[1].sym != repLastSym {
		t.Fatalf("toks[1].sym = %d, want %d (repeat-last)", toks[1].sym, repLastSym)
	}

	foundZeroRepeat := false
	for _, tk := range toks[2:] {
		if tk.sym == repZeroSym || tk.sym == repZeroSym2 {
			foundZeroRepeat = true
		}
	}
	if !foundZeroRepeat {
		t.Fatalf("no repeat-zero token found in %+v", toks)
	}

	// Whatever the exact token split, decoding must reproduce lens exactly.
	i := 0
	read := func() (uint16, uint32, error) {
		tk := toks[i]
		i++
		return uint16(tk.sym), tk.extra, nil
	}
	got, err := decodeRLE(read, len(lens))
	if err != nil {
		t.Fatalf("decodeRLE: %v", err)
	}
	if !reflect.DeepEqual(got, lens) {
		t.Fatalf("decodeRLE round trip = %v, want %v", got, lens)
	}
}

func TestRLERoundTripRandomLengths(t *testing.T) {
	rnd := testutil.NewRand(7)
	for trial := 0; trial < 100; trial++ {
		n := 1 + rnd.Intn(300)
		lens := make([]uint8, n)
		for i := range lens {
			// Skew toward small lengths and runs of zero, the shape code
			// length tables actually take.
			if rnd.Intn(3) == 0 {
				lens[i] = 0
			} else {
				lens[i] = uint8(1 + rnd.Intn(14))
			}
		}
		toks := encodeRLE(lens)
		i := 0
		read := func() (uint16, uint32, error) {
			tk := toks[i]
			i++
			return uint16(tk.sym), tk.extra, nil
		}
		got, err := decodeRLE(read, len(lens))
		if err != nil {
			t.Fatalf("trial %d: decodeRLE: %v", trial, err)
		}
		if !reflect.DeepEqual(got, lens) {
			t.Fatalf("trial %d: round trip = %v, want %v", trial, got, lens)
		}
	}
}

func TestEncodeDecodeTablesDEFLATE(t *testing.T) {
	litLens := LengthTable(make([]uint8, 20))
	for i := range litLens {
		switch {
		case i < 2:
			litLens[i] = 1
		case i < 8:
			litLens[i] = 4
		default:
			litLens[i] = 0
		}
	}
	distLens := LengthTable{2, 2, 2, 2}

	data, err := EncodeDEFLATE([]LengthTable{litLens, distLens})
	if err != nil {
		t.Fatalf("EncodeDEFLATE: %v", err)
	}
	got, err := DecodeDEFLATE(data, []int{len(litLens), len(distLens)})
	if err != nil {
		t.Fatalf("DecodeDEFLATE: %v", err)
	}
	if !reflect.DeepEqual([]byte(got[0]), []byte(litLens)) {
		t.Errorf("literal/length table round trip = %v, want %v", got[0], litLens)
	}
	if !reflect.DeepEqual([]byte(got[1]), []byte(distLens)) {
		t.Errorf("distance table round trip = %v, want %v", got[1], distLens)
	}
}

func TestEncodeDecodeTablesWebP(t *testing.T) {
	lens := LengthTable{1, 0, 0, 2, 0, 2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 3, 3}
	data, err := EncodeWebP([]LengthTable{lens})
	if err != nil {
		t.Fatalf("EncodeWebP: %v", err)
	}
	got, err := DecodeWebP(data, []int{len(lens)})
	if err != nil {
		t.Fatalf("DecodeWebP: %v", err)
	}
	if !reflect.DeepEqual([]byte(got[0]), []byte(lens)) {
		t.Errorf("round trip = %v, want %v", got[0], lens)
	}
}
