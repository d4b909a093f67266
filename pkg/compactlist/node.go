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

import "fmt"

// Node is a handle to one element of a List.
//
// Nodes are small values and may be copied and compared freely. A Node stays
// valid until its element is removed or the list is cleared, including when
// a removal elsewhere in the list moves its element to another slot. Using
// an invalid Node returns an error wrapping ErrInvalidNode; it never refers
// to a different element.
type Node[T any] struct {
	list  *List[T]
	index int32
	gen   uint64
}

// owner returns n's list and the node's current slot if n is still live.
func (n Node[T]) owner() (*List[T], int32, error) {
	if n.list == nil {
		return nil, unset, fmt.Errorf("%w: zero node", ErrInvalidNode)
	}
	i, err := n.list.slot(n)
	if err != nil {
		return nil, unset, err
	}
	return n.list, i, nil
}

// Valid returns true iff n refers to a live element.
func (n Node[T]) Valid() bool {
	_, _, err := n.owner()
	return err == nil
}

// Value returns the element's value.
func (n Node[T]) Value() (T, error) {
	l, i, err := n.owner()
	if err != nil {
		var zero T
		return zero, err
	}
	return l.pool.at(i).value, nil
}

// SetValue replaces the element's value. It is not a structural
// modification.
func (n Node[T]) SetValue(v T) error {
	l, i, err := n.owner()
	if err != nil {
		return err
	}
	l.pool.at(i).value = v
	return nil
}

// Next returns the node after n. ok is false if n is the last node or is no
// longer valid.
func (n Node[T]) Next() (next Node[T], ok bool) {
	l, i, err := n.owner()
	if err != nil {
		return Node[T]{}, false
	}
	succ := l.pool.at(i).link.succ()
	if succ < 0 {
		return Node[T]{}, false
	}
	return l.handle(succ), true
}

// Prev returns the node before n. ok is false if n is the first node or is
// no longer valid.
func (n Node[T]) Prev() (prev Node[T], ok bool) {
	l, i, err := n.owner()
	if err != nil {
		return Node[T]{}, false
	}
	pred := l.pool.at(i).link.pred()
	if pred < 0 {
		return Node[T]{}, false
	}
	return l.handle(pred), true
}

// String implements fmt.Stringer.
func (n Node[T]) String() string {
	v, err := n.Value()
	if err != nil {
		return "<invalid node>"
	}
	return fmt.Sprint(v)
}
