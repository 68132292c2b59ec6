// Copyright 2015, Joe Tsai. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE.md file.

// Package entropy provides the shared Kind enum that the bitstream,
// stats, fse, and prefix packages embed in their own local Error types,
// so that callers can branch on failure kind without each package
// needing its own copy of the enum.
package entropy

// Kind classifies why an operation failed. It is a closed set: no new
// kinds are added at runtime, and every failure in this toolkit maps to
// exactly one of them.
type Kind int

const (
	// InvalidInput reports a caller precondition violation, such as a
	// requested code length outside [1,16] or an empty frequency table
	// passed to a normalization routine.
	InvalidInput Kind = iota + 1

	// InvalidData reports a stream-consistency violation discovered while
	// decoding: an unknown meta symbol, an ambiguous or incomplete prefix
	// code, or a premature end of bits.
	InvalidData

	// OutOfMemory reports that a pre-sized output buffer could not be
	// allocated.
	OutOfMemory
)

func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "invalid input"
	case InvalidData:
		return "invalid data"
	case OutOfMemory:
		return "out of memory"
	default:
		return "unknown error"
	}
}
