// Copyright 2024 The gVisor Authors.
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

package compactlist

import (
	"math"
	"testing"
)

var linkIndices = []int32{unset, endpoint, 0, 1, 2, 1 << 16, math.MaxInt32 - 1, math.MaxInt32}

func TestLinkPack(t *testing.T) {
	for _, pred := range linkIndices {
		for _, succ := range linkIndices {
			l := pack(pred, succ)
			if got := l.pred(); got != pred {
				t.Errorf("pack(%d, %d).pred() = %d, want %d", pred, succ, got, pred)
			}
			if got := l.succ(); got != succ {
				t.Errorf("pack(%d, %d).succ() = %d, want %d", pred, succ, got, succ)
			}
		}
	}
}

func TestLinkUpdateKeepsOtherHalf(t *testing.T) {
	for _, pred := range linkIndices {
		for _, succ := range linkIndices {
			l := pack(pred, succ)
			for _, v := range linkIndices {
				if got := l.withPred(v); got.pred() != v || got.succ() != succ || uint32(got) != uint32(l) {
					t.Errorf("%v.withPred(%d) = %v, want pred %d and succ bits unchanged", l, v, got, v)
				}
				if got := l.withSucc(v); got.succ() != v || got.pred() != pred || got>>32 != l>>32 {
					t.Errorf("%v.withSucc(%d) = %v, want succ %d and pred bits unchanged", l, v, got, v)
				}
			}
		}
	}
}

func TestLinkSentinels(t *testing.T) {
	if got, want := uint64(unlinked), uint64(math.MaxUint64); got != want {
		t.Errorf("unlinked = %#x, want %#x", got, want)
	}
	if got, want := pack(endpoint, endpoint).String(), "end<->end"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := pack(unset, 7).String(), "unset<->7"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
