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
	"math"

	"gvisor.dev/compactlist/pkg/log"
)

// MaxLen is the maximum number of elements a List can hold. Every physical
// index must fit in one 32-bit half of a link.
const MaxLen = math.MaxInt32

// defaultCapacity is the capacity of the pool after the first insertion into
// a list that was not pre-sized.
const defaultCapacity = 10

// node is one slot of the pool.
type node[T any] struct {
	value T
	link  link

	// gen is assigned from List.gen when the node is allocated and moves with
	// the node during compaction. Handles carry a copy to detect staleness.
	gen uint64
}

// pool is the dense backing store of a List.
//
// Slots [0, size) hold live nodes. Slots [size, len(nodes)) are zeroed and
// must never be read. A nil nodes slice is the empty placeholder: it costs
// nothing until the first insertion.
type pool[T any] struct {
	nodes []node[T]
	size  int

	// maxLen bounds growth. Zero means MaxLen.
	maxLen int
}

func (p *pool[T]) limit() int {
	if p.maxLen > 0 {
		return p.maxLen
	}
	return MaxLen
}

// at returns the node in slot i. i must be in [0, size).
func (p *pool[T]) at(i int32) *node[T] {
	return &p.nodes[i]
}

// grow ensures the pool has at least minCap slots. It never shrinks the pool.
//
// Capacity grows by half of the current capacity, or to minCap if that is not
// enough, and is clamped to the limit.
func (p *pool[T]) grow(minCap int) error {
	if minCap < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCapacity, minCap)
	}
	oldCap := len(p.nodes)
	if minCap <= oldCap {
		return nil
	}
	limit := p.limit()
	if minCap > limit {
		return fmt.Errorf("%w: need %d slots, limit is %d", ErrCapacityExhausted, minCap, limit)
	}
	newCap := oldCap + oldCap>>1
	if newCap < minCap {
		newCap = minCap
	}
	if newCap > limit {
		newCap = limit
	}
	if log.IsLogging(log.Debug) {
		log.Debugf("compactlist: growing node pool from %d to %d slots (%d live)", oldCap, newCap, p.size)
	}
	nodes := make([]node[T], newCap)
	copy(nodes, p.nodes[:p.size])
	p.nodes = nodes
	return nil
}

// presize allocates exactly n slots up front. Unlike the placeholder, an
// explicitly sized pool grows from its own capacity rather than jumping to
// defaultCapacity.
func (p *pool[T]) presize(n int) error {
	if err := p.grow(n); err != nil {
		return err
	}
	if p.nodes == nil {
		p.nodes = []node[T]{}
	}
	return nil
}

// reserve makes room for one more node.
func (p *pool[T]) reserve() error {
	want := p.size + 1
	if p.nodes == nil {
		want = max(want, min(defaultCapacity, p.limit()))
	}
	return p.grow(want)
}

// allocate places a new, unlinked node in slot size and returns its index.
// reserve must have succeeded first.
func (p *pool[T]) allocate(v T, gen uint64) int32 {
	i := int32(p.size)
	p.nodes[i] = node[T]{value: v, link: unlinked, gen: gen}
	p.size++
	return i
}

// move copies the node in slot from to slot to. Links pointing at either
// slot are the caller's responsibility.
func (p *pool[T]) move(from, to int32) {
	p.nodes[to] = p.nodes[from]
}

// release drops the node in the last slot.
func (p *pool[T]) release() {
	p.size--
	p.nodes[p.size] = node[T]{}
}

// reset discards all storage and returns to the placeholder.
func (p *pool[T]) reset() {
	p.nodes = nil
	p.size = 0
}
