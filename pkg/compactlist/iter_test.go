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
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collectValues[T any](it *ValueIterator[T]) ([]T, error) {
	var vs []T
	for it.Next() {
		vs = append(vs, it.Value())
	}
	return vs, it.Err()
}

func collectNodes[T any](it *NodeIterator[T]) ([]T, error) {
	var vs []T
	for it.Next() {
		v, err := it.Node().Value()
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, it.Err()
}

func TestIterators(t *testing.T) {
	l := New[int]()
	for i := 0; i < 5; i++ {
		l.PushFront(i)
	}
	l.Append(100)
	forward := []int{4, 3, 2, 1, 0, 100}
	backward := []int{100, 0, 1, 2, 3, 4}

	for _, tc := range []struct {
		name    string
		collect func() ([]int, error)
		want    []int
	}{
		{"Iterator", func() ([]int, error) { return collectValues(l.Iterator()) }, forward},
		{"BackwardIterator", func() ([]int, error) { return collectValues(l.BackwardIterator()) }, backward},
		{"NodeIterator", func() ([]int, error) { return collectNodes(l.NodeIterator()) }, forward},
		{"BackwardNodeIterator", func() ([]int, error) { return collectNodes(l.BackwardNodeIterator()) }, backward},
		{"Values", func() ([]int, error) { return slices.Collect(l.Values()), nil }, forward},
		{"Backward", func() ([]int, error) { return slices.Collect(l.Backward()), nil }, backward},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.collect()
			if err != nil {
				t.Fatalf("iteration failed: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIteratorEmpty(t *testing.T) {
	l := New[string]()
	for name, it := range map[string]*ValueIterator[string]{
		"forward":  l.Iterator(),
		"backward": l.BackwardIterator(),
	} {
		if it.Next() {
			t.Errorf("%s: Next() on empty list = true", name)
		}
		if err := it.Err(); err != nil {
			t.Errorf("%s: Err() = %v", name, err)
		}
	}
}

func TestIteratorNotRestartable(t *testing.T) {
	l := Of(1, 2)
	it := l.Iterator()
	if got, _ := collectValues(it); len(got) != 2 {
		t.Fatalf("first pass returned %v", got)
	}
	if it.Next() {
		t.Errorf("exhausted iterator returned another value")
	}
}

func TestAllPositions(t *testing.T) {
	l := Of("a", "b", "c")
	var got []string
	for pos, v := range l.All() {
		got = append(got, fmt.Sprintf("%d:%s", pos, v))
	}
	if diff := cmp.Diff([]string{"0:a", "1:b", "2:c"}, got); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}
}

// TestConcurrentModification checks that every kind of structural edit made
// after an iterator is created stops that iterator at its next step.
func TestConcurrentModification(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(l *List[int])
	}{
		{"Append", func(l *List[int]) { l.Append(9) }},
		{"PushFront", func(l *List[int]) { l.PushFront(9) }},
		{"InsertAfter", func(l *List[int]) {
			n, _ := l.Front()
			l.InsertAfter(n, 9)
		}},
		{"RemoveAt", func(l *List[int]) { l.RemoveAt(1) }},
		{"Remove", func(l *List[int]) {
			n, _ := l.Back()
			l.Remove(n)
		}},
		{"RemoveValue", func(l *List[int]) { RemoveValue(l, 2) }},
		{"Clear", func(l *List[int]) { l.Clear() }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := Of(1, 2, 3)
			values := l.Iterator()
			backward := l.BackwardIterator()
			nodes := l.NodeIterator()
			backNodes := l.BackwardNodeIterator()
			if !values.Next() || !backward.Next() || !nodes.Next() || !backNodes.Next() {
				t.Fatalf("first step failed")
			}
			fresh := l.Iterator()

			tc.mutate(l)

			for name, it := range map[string]interface {
				Next() bool
				Err() error
			}{
				"Iterator":             values,
				"BackwardIterator":     backward,
				"NodeIterator":         nodes,
				"BackwardNodeIterator": backNodes,
				"unstarted Iterator":   fresh,
			} {
				if it.Next() {
					t.Errorf("%s: Next() after %s = true", name, tc.name)
				}
				if err := it.Err(); !errors.Is(err, ErrConcurrentModification) {
					t.Errorf("%s: Err() after %s = %v, want ErrConcurrentModification", name, tc.name, err)
				}
				// The failure is sticky.
				if it.Next() {
					t.Errorf("%s: Next() after failure = true", name)
				}
			}
		})
	}
}

func TestSetIsNotStructural(t *testing.T) {
	l := Of(1, 2, 3)
	it := l.Iterator()
	it.Next()
	if _, err := l.Set(2, 30); err != nil {
		t.Fatalf("Set: %v", err)
	}
	n, _ := l.Front()
	if err := n.SetValue(10); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	rest, err := collectValues(it)
	if err != nil {
		t.Fatalf("iteration after Set failed: %v", err)
	}
	if diff := cmp.Diff([]int{2, 30}, rest); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRangePanicsOnModification(t *testing.T) {
	l := Of(1, 2, 3)
	defer func() {
		err, ok := recover().(error)
		if !ok || !errors.Is(err, ErrConcurrentModification) {
			t.Errorf("recovered %v, want ErrConcurrentModification", err)
		}
	}()
	for v := range l.Values() {
		if v == 1 {
			l.Append(4)
		}
	}
	t.Errorf("range loop completed despite modification")
}

func TestRangeBreakAfterModification(t *testing.T) {
	l := Of(1, 2, 3)
	for v := range l.Values() {
		l.RemoveAt(0)
		if v == 1 {
			break
		}
	}
	if diff := cmp.Diff([]int{2, 3}, l.Slice()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestForEach(t *testing.T) {
	l := Of(1, 2, 3, 4)

	var got []int
	if err := l.ForEach(func(v int) error {
		got = append(got, v)
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if err := l.ForEachBackward(func(v int) error {
		got = append(got, v)
		return nil
	}); err != nil {
		t.Fatalf("ForEachBackward: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4, 4, 3, 2, 1}, got); diff != "" {
		t.Errorf("ForEach mismatch (-want +got):\n%s", diff)
	}

	// Node actions may edit values in place.
	if err := l.ForEachNode(func(n Node[int]) error {
		v, _ := n.Value()
		return n.SetValue(v * 10)
	}); err != nil {
		t.Fatalf("ForEachNode: %v", err)
	}
	got = nil
	if err := l.ForEachNodeBackward(func(n Node[int]) error {
		v, _ := n.Value()
		got = append(got, v)
		return nil
	}); err != nil {
		t.Fatalf("ForEachNodeBackward: %v", err)
	}
	if diff := cmp.Diff([]int{40, 30, 20, 10}, got); diff != "" {
		t.Errorf("ForEachNode mismatch (-want +got):\n%s", diff)
	}

	stop := errors.New("stop")
	calls := 0
	if err := l.ForEach(func(int) error {
		calls++
		return stop
	}); err != stop {
		t.Errorf("ForEach returned %v, want the action's error", err)
	}
	if calls != 1 {
		t.Errorf("action called %d times after failing, want 1", calls)
	}

	err := l.ForEachNode(func(n Node[int]) error {
		_, err := l.Remove(n)
		return err
	})
	if !errors.Is(err, ErrConcurrentModification) {
		t.Errorf("ForEachNode removing nodes returned %v, want ErrConcurrentModification", err)
	}
}
