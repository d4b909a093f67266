// Copyright 2018 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package bits includes non-atomic bit manipulation helpers for 64-bit words,
// including accessors for their two 32-bit halves.
package bits

const (
	// HalfWidth is the number of bits in each half of a 64-bit word.
	HalfWidth = 32

	// LoMask selects the low half of a 64-bit word.
	LoMask = uint64(1)<<HalfWidth - 1

	// HiMask selects the high half of a 64-bit word.
	HiMask = LoMask << HalfWidth
)

// IsOn64 returns true if *all* bits set in 'bits' are set in 'mask'.
func IsOn64(mask, bits uint64) bool {
	return mask&bits == bits
}

// IsAnyOn64 returns true if *any* bit set in 'bits' is set in 'mask'.
func IsAnyOn64(mask, bits uint64) bool {
	return mask&bits != 0
}

// Mask64 returns a uint64 with all of the given bits set.
func Mask64(is ...int) uint64 {
	ret := uint64(0)
	for _, i := range is {
		ret |= MaskOf64(i)
	}
	return ret
}

// MaskOf64 is like Mask64, but sets only a single bit (more efficiently).
func MaskOf64(i int) uint64 {
	return uint64(1) << uint64(i)
}

// Hi32 returns the high half of w.
//
//go:nosplit
func Hi32(w uint64) uint32 {
	return uint32(w >> HalfWidth)
}

// Lo32 returns the low half of w.
//
//go:nosplit
func Lo32(w uint64) uint32 {
	return uint32(w)
}

// Join32 returns the word whose high half is hi and whose low half is lo.
//
//go:nosplit
func Join32(hi, lo uint32) uint64 {
	return uint64(hi)<<HalfWidth | uint64(lo)
}

// WithHi32 returns w with its high half replaced by hi. The low half is
// unchanged.
//
//go:nosplit
func WithHi32(w uint64, hi uint32) uint64 {
	return w&LoMask | uint64(hi)<<HalfWidth
}

// WithLo32 returns w with its low half replaced by lo. The high half is
// unchanged.
//
//go:nosplit
func WithLo32(w uint64, lo uint32) uint64 {
	return w&HiMask | uint64(lo)
}
