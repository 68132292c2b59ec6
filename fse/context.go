// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package fse implements a binary adaptive range coder: a "finite state
// entropy" coder over 1-bit contexts, each tracking an 8-bit adaptive
// probability of the next bit being 1. It is the toolkit's arithmetic
// coder, complementary to the canonical-Huffman coder in package prefix.
package fse

// initProb is the starting probability (out of 256) assigned to every
// fresh context: exactly 0.5.
const initProb = 0x80

// initState is the encoder's starting state and the decoder's refill
// threshold: the decoder starts from 0 and shifts in bytes until its
// state is at least initState.
const initState = 0x1000

// Context is an adaptive 8-bit probability: P(bit=1) = value/256.
type Context byte

// update adjusts c toward the observed bit using a fixed geometric step of
// shift 4, the same update used by both the encoder and decoder so the two
// stay in lockstep.
func (c *Context) update(bit bool) {
	p := uint32(*c)
	if bit {
		p += (256 - p + 8) >> 4
	} else {
		p -= (p + 8) >> 4
	}
	*c = Context(p)
}

// ContextTable is a dense, flat array of contexts addressed by small
// integer ids. Byte encoding addresses a contiguous block of 255 slots per
// byte-tree root (base..base+254); bit-array encoding addresses n
// contiguous slots per array (base..base+n-1). Callers choose disjoint
// bases for independent context trees/arrays sharing one table.
type ContextTable []Context

// NewContextTable returns a table of n contexts, each initialized to 0.5.
func NewContextTable(n int) ContextTable {
	t := make(ContextTable, n)
	for i := range t {
		t[i] = initProb
	}
	return t
}
