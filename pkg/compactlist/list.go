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

// Package compactlist provides a doubly linked list whose nodes are stored in
// a single dense slice instead of being allocated one by one.
//
// Each node carries its value and one 64-bit link word holding the physical
// indices of both neighbours. Removal splices the node out and then moves the
// node in the last slot into the hole, so the live nodes always occupy
// [0, Len()) and a list of n elements costs one allocation of roughly n
// nodes. Compared to container/list this trades a few extra link rewrites
// per edit for far fewer allocations and smaller nodes. It is not a general
// replacement: lookup by value is a linear scan.
//
// A List is not safe for concurrent use. Iterators detect structural
// modification of their list and stop with ErrConcurrentModification; this
// is a single-goroutine debugging aid, not synchronization.
package compactlist

import (
	"fmt"
	"iter"
	"strings"
)

// List is a compact doubly linked list.
//
// The zero value for List is an empty list ready to use.
type List[T any] struct {
	pool pool[T]

	// first and last are the physical indices of the head and tail. They are
	// only meaningful while the pool is non-empty; see head and tail.
	first int32
	last  int32

	// stamp is incremented by every structural modification.
	stamp uint64

	// gen is the generation of the most recently allocated node.
	gen uint64

	// moved maps the generation of every node relocated by compaction to
	// its current slot, so that handles issued before the move still find
	// it. It is allocated on the first relocation.
	moved map[uint64]int32
}

// New returns an empty list. No storage is allocated until the first
// insertion.
func New[T any]() *List[T] {
	return &List[T]{first: unset, last: unset}
}

// NewWithExpectedSize returns an empty list with room for n elements before
// its storage has to grow.
func NewWithExpectedSize[T any](n int) (*List[T], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: expected size %d", ErrNegativeCapacity, n)
	}
	l := New[T]()
	if err := l.pool.presize(n); err != nil {
		return nil, err
	}
	return l, nil
}

// Of returns a list holding vs in order.
func Of[T any](vs ...T) *List[T] {
	l, err := NewWithExpectedSize[T](len(vs))
	if err != nil {
		panic(err)
	}
	for _, v := range vs {
		l.Append(v)
	}
	return l
}

// FromSeq returns a list holding the values of seq in order.
func FromSeq[T any](seq iter.Seq[T]) *List[T] {
	l := New[T]()
	for v := range seq {
		l.Append(v)
	}
	return l
}

// Len returns the number of elements in the list.
func (l *List[T]) Len() int {
	return l.pool.size
}

// Cap returns the number of elements the list can hold before its storage
// has to grow.
func (l *List[T]) Cap() int {
	return len(l.pool.nodes)
}

// head returns the physical index of the first node, or unset.
func (l *List[T]) head() int32 {
	if l.pool.size == 0 {
		return unset
	}
	return l.first
}

// tail returns the physical index of the last node, or unset.
func (l *List[T]) tail() int32 {
	if l.pool.size == 0 {
		return unset
	}
	return l.last
}

// handle returns a handle for the live node in slot i.
func (l *List[T]) handle(i int32) Node[T] {
	return Node[T]{list: l, index: i, gen: l.pool.at(i).gen}
}

// insert links a new node holding v after the node in slot pred, or at the
// front if pred is unset, and returns the new node's slot.
//
// On error the list is unchanged.
func (l *List[T]) insert(pred int32, v T) (int32, error) {
	if err := l.pool.reserve(); err != nil {
		return unset, err
	}
	wasEmpty := l.pool.size == 0
	l.gen++
	i := l.pool.allocate(v, l.gen)
	n := l.pool.at(i)

	switch {
	case pred == unset && wasEmpty:
		n.link = pack(endpoint, endpoint)
		l.first = i
		l.last = i

	case pred == unset:
		n.link = pack(endpoint, l.first)
		h := l.pool.at(l.first)
		h.link = h.link.withPred(i)
		l.first = i

	default:
		p := l.pool.at(pred)
		succ := p.link.succ()
		if succ == endpoint {
			n.link = pack(pred, endpoint)
			l.last = i
		} else {
			next := l.pool.at(succ)
			n.link = pack(pred, succ)
			next.link = next.link.withPred(i)
		}
		p.link = p.link.withSucc(i)
	}

	l.stamp++
	return i, nil
}

// mustInsert is insert for operations that cannot report errors. Failing to
// grow is a resource exhaustion, like failing to grow a slice.
func (l *List[T]) mustInsert(pred int32, v T) Node[T] {
	i, err := l.insert(pred, v)
	if err != nil {
		panic(err)
	}
	return l.handle(i)
}

// Append inserts v at the back of the list and returns its node.
//
// Append panics with an error wrapping ErrCapacityExhausted if the list
// already holds MaxLen elements.
func (l *List[T]) Append(v T) Node[T] {
	return l.mustInsert(l.tail(), v)
}

// PushFront inserts v at the front of the list and returns its node.
//
// PushFront panics with an error wrapping ErrCapacityExhausted if the list
// already holds MaxLen elements.
func (l *List[T]) PushFront(v T) Node[T] {
	return l.mustInsert(unset, v)
}

// InsertAfter inserts v immediately after n and returns the new node. n must
// be a live node of l.
func (l *List[T]) InsertAfter(n Node[T], v T) (Node[T], error) {
	slot, err := l.slot(n)
	if err != nil {
		return Node[T]{}, err
	}
	i, err := l.insert(slot, v)
	if err != nil {
		return Node[T]{}, err
	}
	return l.handle(i), nil
}

// InsertBefore inserts v immediately before n and returns the new node. n
// must be a live node of l.
func (l *List[T]) InsertBefore(n Node[T], v T) (Node[T], error) {
	slot, err := l.slot(n)
	if err != nil {
		return Node[T]{}, err
	}
	pred := l.pool.at(slot).link.pred()
	if pred == endpoint {
		pred = unset
	}
	i, err := l.insert(pred, v)
	if err != nil {
		return Node[T]{}, err
	}
	return l.handle(i), nil
}

// slot returns the slot holding the node n refers to, which must be a live
// node of l.
//
// Generations are never reused, so a matching generation identifies the
// node. A handle whose slot no longer carries its generation is either
// stale or points at a node that compaction moved; moved says which. The
// link comparison confirms the slot is still reachable from its
// predecessor, or is the head.
func (l *List[T]) slot(n Node[T]) (int32, error) {
	if n.list == nil {
		return unset, fmt.Errorf("%w: zero node", ErrInvalidNode)
	}
	if n.list != l {
		return unset, fmt.Errorf("%w: node belongs to another list", ErrInvalidNode)
	}
	i := n.index
	if i < 0 || int(i) >= l.pool.size || l.pool.at(i).gen != n.gen {
		moved, ok := l.moved[n.gen]
		if !ok {
			return unset, fmt.Errorf("%w: generation %d is not live in slot %d (len %d)", ErrInvalidNode, n.gen, n.index, l.pool.size)
		}
		i = moved
	}
	nd := l.pool.at(i)
	if nd.gen != n.gen {
		return unset, fmt.Errorf("%w: slot %d holds generation %d, handle has %d", ErrInvalidNode, i, nd.gen, n.gen)
	}
	var back int32
	if pred := nd.link.pred(); pred == endpoint {
		back = l.first
	} else {
		back = l.pool.at(pred).link.succ()
	}
	if back != i {
		return unset, fmt.Errorf("%w: slot %d is not reachable from its predecessor", ErrInvalidNode, i)
	}
	return i, nil
}

// checkPosition returns nil iff pos is in [0, Len()).
func (l *List[T]) checkPosition(pos int) error {
	if pos < 0 || pos >= l.pool.size {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, pos, l.pool.size)
	}
	return nil
}

// resolve returns the physical index of the node at logical position pos,
// which must be valid. It walks from whichever end is closer, so it takes at
// most Len()/2 steps.
func (l *List[T]) resolve(pos int) int32 {
	if pos < l.pool.size/2 {
		i := l.first
		for ; pos > 0; pos-- {
			i = l.pool.at(i).link.succ()
		}
		return i
	}
	i := l.last
	for steps := l.pool.size - 1 - pos; steps > 0; steps-- {
		i = l.pool.at(i).link.pred()
	}
	return i
}

// Get returns the value at position pos.
func (l *List[T]) Get(pos int) (T, error) {
	if err := l.checkPosition(pos); err != nil {
		var zero T
		return zero, err
	}
	return l.pool.at(l.resolve(pos)).value, nil
}

// Set replaces the value at position pos and returns the previous value. Set
// is not a structural modification.
func (l *List[T]) Set(pos int, v T) (T, error) {
	if err := l.checkPosition(pos); err != nil {
		var zero T
		return zero, err
	}
	n := l.pool.at(l.resolve(pos))
	old := n.value
	n.value = v
	return old, nil
}

// NodeAt returns the node at position pos.
func (l *List[T]) NodeAt(pos int) (Node[T], error) {
	if err := l.checkPosition(pos); err != nil {
		return Node[T]{}, err
	}
	return l.handle(l.resolve(pos)), nil
}

// Front returns the first node, if any.
func (l *List[T]) Front() (Node[T], bool) {
	if l.pool.size == 0 {
		return Node[T]{}, false
	}
	return l.handle(l.first), true
}

// Back returns the last node, if any.
func (l *List[T]) Back() (Node[T], bool) {
	if l.pool.size == 0 {
		return Node[T]{}, false
	}
	return l.handle(l.last), true
}

// RemoveAt removes the element at position pos and returns it.
func (l *List[T]) RemoveAt(pos int) (T, error) {
	if err := l.checkPosition(pos); err != nil {
		var zero T
		return zero, err
	}
	return l.remove(l.resolve(pos)), nil
}

// Remove removes n from the list and returns its value.
//
// Removal may move another node to a new slot. Handles to that node stay
// valid.
func (l *List[T]) Remove(n Node[T]) (T, error) {
	slot, err := l.slot(n)
	if err != nil {
		var zero T
		return zero, err
	}
	return l.remove(slot), nil
}

// remove unlinks the node in slot i and compacts the pool.
func (l *List[T]) remove(i int32) T {
	nd := l.pool.at(i)
	v := nd.value
	delete(l.moved, nd.gen)
	if l.pool.size == 1 {
		l.Clear()
		return v
	}

	pred, succ := nd.link.pred(), nd.link.succ()
	switch {
	case pred == endpoint:
		s := l.pool.at(succ)
		s.link = s.link.withPred(endpoint)
		l.first = succ
	case succ == endpoint:
		p := l.pool.at(pred)
		p.link = p.link.withSucc(endpoint)
		l.last = pred
	default:
		p := l.pool.at(pred)
		s := l.pool.at(succ)
		p.link = p.link.withSucc(succ)
		s.link = s.link.withPred(pred)
	}

	l.compact(i)
	l.stamp++
	return v
}

// compact fills the unlinked slot hole with the node in the last slot, so
// that live nodes stay in [0, size).
//
// Every reference to the last slot (its neighbours' links, first and last) is
// redirected to hole before the last slot is released.
func (l *List[T]) compact(hole int32) {
	lastSlot := int32(l.pool.size - 1)
	if hole != lastSlot {
		lk := l.pool.at(lastSlot).link
		if pred := lk.pred(); pred == endpoint {
			l.first = hole
		} else {
			p := l.pool.at(pred)
			p.link = p.link.withSucc(hole)
		}
		if succ := lk.succ(); succ == endpoint {
			l.last = hole
		} else {
			s := l.pool.at(succ)
			s.link = s.link.withPred(hole)
		}
		l.pool.move(lastSlot, hole)
		if l.moved == nil {
			l.moved = make(map[uint64]int32)
		}
		l.moved[l.pool.at(hole).gen] = hole
	}
	l.pool.release()
}

// Clear removes all elements and releases the list's storage. All existing
// handles become invalid.
func (l *List[T]) Clear() {
	l.pool.reset()
	l.moved = nil
	l.first = unset
	l.last = unset
	l.stamp++
}

// FindFunc returns the first node, in forward order, whose value satisfies
// match.
func (l *List[T]) FindFunc(match func(T) bool) (Node[T], bool) {
	for i := l.head(); i >= 0; {
		n := l.pool.at(i)
		if match(n.value) {
			return l.handle(i), true
		}
		i = n.link.succ()
	}
	return Node[T]{}, false
}

// Find returns the first node of l, in forward order, holding v.
func Find[T comparable](l *List[T], v T) (Node[T], bool) {
	return l.FindFunc(func(e T) bool { return e == v })
}

// Index returns the position of the first occurrence of v in l, or -1.
func Index[T comparable](l *List[T], v T) int {
	pos := 0
	for i := l.head(); i >= 0; pos++ {
		n := l.pool.at(i)
		if n.value == v {
			return pos
		}
		i = n.link.succ()
	}
	return -1
}

// RemoveValue removes the first occurrence of v from l. It returns false if
// l does not contain v.
func RemoveValue[T comparable](l *List[T], v T) bool {
	n, ok := Find(l, v)
	if !ok {
		return false
	}
	l.remove(n.index)
	return true
}

// Slice returns the values of the list in order.
func (l *List[T]) Slice() []T {
	s := make([]T, 0, l.pool.size)
	for i := l.head(); i >= 0; {
		n := l.pool.at(i)
		s = append(s, n.value)
		i = n.link.succ()
	}
	return s
}

// String implements fmt.Stringer.
func (l *List[T]) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := l.head(); i >= 0; {
		n := l.pool.at(i)
		if i != l.first {
			b.WriteByte(' ')
		}
		fmt.Fprint(&b, n.value)
		i = n.link.succ()
	}
	b.WriteByte(']')
	return b.String()
}
