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
	"fmt"

	"gvisor.dev/compactlist/pkg/bits"
)

// Sentinel values for either half of a link. Both are negative, so they can
// never collide with a physical index.
const (
	// unset marks a link that was never assigned.
	unset int32 = -1

	// endpoint marks the boundary of the list: a predecessor of endpoint is
	// the head, a successor of endpoint is the tail.
	endpoint int32 = -2
)

// link holds both neighbours of a node in one word. The high 32 bits are the
// predecessor's physical index, the low 32 bits the successor's. Sentinels
// are stored in two's complement and recovered by the int32 conversion.
type link uint64

// unlinked is the link of a freshly allocated node.
var unlinked = pack(unset, unset)

func pack(pred, succ int32) link {
	return link(bits.Join32(uint32(pred), uint32(succ)))
}

func (l link) pred() int32 {
	return int32(bits.Hi32(uint64(l)))
}

func (l link) succ() int32 {
	return int32(bits.Lo32(uint64(l)))
}

// withPred returns l with the predecessor replaced; the successor half is
// left untouched.
func (l link) withPred(i int32) link {
	return link(bits.WithHi32(uint64(l), uint32(i)))
}

// withSucc returns l with the successor replaced; the predecessor half is
// left untouched.
func (l link) withSucc(i int32) link {
	return link(bits.WithLo32(uint64(l), uint32(i)))
}

// String implements fmt.Stringer.
func (l link) String() string {
	return fmt.Sprintf("%s<->%s", indexString(l.pred()), indexString(l.succ()))
}

func indexString(i int32) string {
	switch i {
	case unset:
		return "unset"
	case endpoint:
		return "end"
	default:
		return fmt.Sprintf("%d", i)
	}
}
