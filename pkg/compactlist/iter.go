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
	"iter"
)

// cursor walks the link graph of a list in one direction.
type cursor[T any] struct {
	list     *List[T]
	backward bool

	// stamp is the list's modification stamp when the cursor was created.
	stamp uint64

	// next is the slot to visit on the following step, endpoint once the
	// walk has passed the end, or unset if the list was empty.
	next int32

	// cur is the slot visited by the last successful step.
	cur int32

	err error
}

func (l *List[T]) newCursor(backward bool) cursor[T] {
	start := l.head()
	if backward {
		start = l.tail()
	}
	return cursor[T]{
		list:     l,
		backward: backward,
		stamp:    l.stamp,
		next:     start,
		cur:      unset,
	}
}

// step advances the cursor. It returns false at the end of the list or if
// the list was structurally modified since the cursor was created.
func (c *cursor[T]) step() bool {
	if c.err != nil {
		return false
	}
	if c.list.stamp != c.stamp {
		c.err = fmt.Errorf("%w: stamp %d, iterator expected %d", ErrConcurrentModification, c.list.stamp, c.stamp)
		c.cur = unset
		return false
	}
	if c.next < 0 {
		c.cur = unset
		return false
	}
	c.cur = c.next
	l := c.list.pool.at(c.cur).link
	if c.backward {
		c.next = l.pred()
	} else {
		c.next = l.succ()
	}
	return true
}

// ValueIterator iterates over the values of a List.
//
// Use it like a bufio.Scanner:
//
//	it := l.Iterator()
//	for it.Next() {
//		use(it.Value())
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
//
// An iterator makes a single pass; request a new one to iterate again.
type ValueIterator[T any] struct {
	c     cursor[T]
	value T
}

// Iterator returns an iterator over the values of l from front to back.
func (l *List[T]) Iterator() *ValueIterator[T] {
	return &ValueIterator[T]{c: l.newCursor(false)}
}

// BackwardIterator returns an iterator over the values of l from back to
// front.
func (l *List[T]) BackwardIterator() *ValueIterator[T] {
	return &ValueIterator[T]{c: l.newCursor(true)}
}

// Next advances to the next value. It returns false when the iteration is
// over, either because the end was reached or because of an error.
func (it *ValueIterator[T]) Next() bool {
	if !it.c.step() {
		var zero T
		it.value = zero
		return false
	}
	it.value = it.c.list.pool.at(it.c.cur).value
	return true
}

// Value returns the value found by the last call to Next.
func (it *ValueIterator[T]) Value() T {
	return it.value
}

// Err returns ErrConcurrentModification (wrapped) if the iteration stopped
// because the list was modified, and nil otherwise.
func (it *ValueIterator[T]) Err() error {
	return it.c.err
}

// NodeIterator iterates over the nodes of a List. See ValueIterator.
type NodeIterator[T any] struct {
	c    cursor[T]
	node Node[T]
}

// NodeIterator returns an iterator over the nodes of l from front to back.
func (l *List[T]) NodeIterator() *NodeIterator[T] {
	return &NodeIterator[T]{c: l.newCursor(false)}
}

// BackwardNodeIterator returns an iterator over the nodes of l from back to
// front.
func (l *List[T]) BackwardNodeIterator() *NodeIterator[T] {
	return &NodeIterator[T]{c: l.newCursor(true)}
}

// Next advances to the next node.
func (it *NodeIterator[T]) Next() bool {
	if !it.c.step() {
		it.node = Node[T]{}
		return false
	}
	it.node = it.c.list.handle(it.c.cur)
	return true
}

// Node returns the node found by the last call to Next.
func (it *NodeIterator[T]) Node() Node[T] {
	return it.node
}

// Err returns the error that stopped the iteration, if any.
func (it *NodeIterator[T]) Err() error {
	return it.c.err
}

// All returns a sequence of positions and values from front to back.
//
// A range loop has no way to report an error, so the sequence panics with
// ErrConcurrentModification (wrapped) if the loop body structurally modifies
// the list and then continues.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		it := l.Iterator()
		for pos := 0; it.Next(); pos++ {
			if !yield(pos, it.Value()) {
				return
			}
		}
		if err := it.Err(); err != nil {
			panic(err)
		}
	}
}

// Values returns a sequence of the values from front to back. It panics like
// All.
func (l *List[T]) Values() iter.Seq[T] {
	return l.values(false)
}

// Backward returns a sequence of the values from back to front. It panics
// like All.
func (l *List[T]) Backward() iter.Seq[T] {
	return l.values(true)
}

func (l *List[T]) values(backward bool) iter.Seq[T] {
	return func(yield func(T) bool) {
		it := &ValueIterator[T]{c: l.newCursor(backward)}
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
		if err := it.Err(); err != nil {
			panic(err)
		}
	}
}

// ForEach calls action for each value from front to back. It stops at the
// first error returned by action and returns it, or returns the iterator's
// error if the list is modified during the walk.
func (l *List[T]) ForEach(action func(T) error) error {
	return forEachValue(l.Iterator(), action)
}

// ForEachBackward is like ForEach, from back to front.
func (l *List[T]) ForEachBackward(action func(T) error) error {
	return forEachValue(l.BackwardIterator(), action)
}

// ForEachNode is like ForEach, passing nodes.
func (l *List[T]) ForEachNode(action func(Node[T]) error) error {
	return forEachNode(l.NodeIterator(), action)
}

// ForEachNodeBackward is like ForEachNode, from back to front.
func (l *List[T]) ForEachNodeBackward(action func(Node[T]) error) error {
	return forEachNode(l.BackwardNodeIterator(), action)
}

func forEachValue[T any](it *ValueIterator[T], action func(T) error) error {
	for it.Next() {
		if err := action(it.Value()); err != nil {
			return err
		}
	}
	return it.Err()
}

func forEachNode[T any](it *NodeIterator[T], action func(Node[T]) error) error {
	for it.Next() {
		if err := action(it.Node()); err != nil {
			return err
		}
	}
	return it.Err()
}
