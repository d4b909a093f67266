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

package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
	"gvisor.dev/compactlist/listctl/cmd/util"
	"gvisor.dev/compactlist/pkg/compactlist"
	"gvisor.dev/compactlist/pkg/log"
)

// Scenario is a sequence of list edits read from YAML, for example:
//
//	name: example
//	expected-size: 16
//	steps:
//	- op: append
//	  values: [a, b, c]
//	- op: insert-after
//	  find: b
//	  value: x
//	- op: remove-at
//	  at: 0
//	- op: expect
//	  values: [b, x, c]
type Scenario struct {
	Name         string `yaml:"name"`
	ExpectedSize int    `yaml:"expected-size"`
	Steps        []Step `yaml:"steps"`
}

// Step is one operation of a Scenario.
//
// Operations that need a node locate it with Find (first node holding that
// value) or At (position). Operations that need a position use At.
type Step struct {
	Op       string   `yaml:"op"`
	Value    string   `yaml:"value,omitempty"`
	Values   []string `yaml:"values,omitempty"`
	At       *int     `yaml:"at,omitempty"`
	Find     *string  `yaml:"find,omitempty"`
	Backward bool     `yaml:"backward,omitempty"`
}

// Operations understood by Step.
const (
	OpAppend       = "append"
	OpPush         = "push"
	OpInsertAfter  = "insert-after"
	OpInsertBefore = "insert-before"
	OpRemoveAt     = "remove-at"
	OpRemove       = "remove"
	OpSet          = "set"
	OpClear        = "clear"
	OpPrint        = "print"
	OpExpect       = "expect"
)

// ParseScenario decodes a YAML scenario. Unknown fields are rejected so that
// typos do not silently turn into no-ops.
func ParseScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty scenario")
		}
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if s.ExpectedSize < 0 {
		return nil, fmt.Errorf("expected-size must not be negative, got %d", s.ExpectedSize)
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return &s, nil
}

// LoadScenario reads and parses the scenario in the named file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (st *Step) validate() error {
	needValue := func() error {
		if st.Value == "" && len(st.Values) == 0 {
			return fmt.Errorf("%s needs value or values", st.Op)
		}
		return nil
	}
	switch st.Op {
	case OpAppend, OpPush:
		return needValue()
	case OpInsertAfter, OpInsertBefore:
		if st.Find == nil && st.At == nil {
			return fmt.Errorf("%s needs find or at", st.Op)
		}
		return needValue()
	case OpRemove:
		if st.Find == nil && st.At == nil {
			return fmt.Errorf("%s needs find or at", st.Op)
		}
	case OpRemoveAt:
		if st.At == nil {
			return fmt.Errorf("%s needs at", st.Op)
		}
	case OpSet:
		if st.At == nil {
			return fmt.Errorf("%s needs at", st.Op)
		}
	case OpClear, OpPrint, OpExpect:
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}

// values returns the values carried by the step, in order.
func (st *Step) values() []string {
	if st.Value != "" {
		return append([]string{st.Value}, st.Values...)
	}
	return st.Values
}

// node locates the node the step refers to.
func (st *Step) node(l *compactlist.List[string]) (compactlist.Node[string], error) {
	if st.Find != nil {
		n, ok := compactlist.Find(l, *st.Find)
		if !ok {
			return compactlist.Node[string]{}, fmt.Errorf("no element %q", *st.Find)
		}
		return n, nil
	}
	return l.NodeAt(*st.At)
}

// Run applies the scenario's steps to l, writing the output of print steps to
// out. It stops at the first failing step.
func (s *Scenario) Run(l *compactlist.List[string], out io.Writer, logger log.Logger) error {
	for i := range s.Steps {
		st := &s.Steps[i]
		if err := st.apply(l, out); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		if logger.IsLogging(log.Debug) {
			logger.Debugf("step %d (%s): len %d", i+1, st.Op, l.Len())
		}
	}
	return nil
}

func (st *Step) apply(l *compactlist.List[string], out io.Writer) error {
	switch st.Op {
	case OpAppend:
		for _, v := range st.values() {
			l.Append(v)
		}

	case OpPush:
		for _, v := range st.values() {
			l.PushFront(v)
		}

	case OpInsertAfter:
		// Each value goes right after the previous one, so the values keep
		// their order.
		n, err := st.node(l)
		if err != nil {
			return err
		}
		for _, v := range st.values() {
			if n, err = l.InsertAfter(n, v); err != nil {
				return err
			}
		}

	case OpInsertBefore:
		n, err := st.node(l)
		if err != nil {
			return err
		}
		for _, v := range st.values() {
			if _, err := l.InsertBefore(n, v); err != nil {
				return err
			}
		}

	case OpRemoveAt:
		if _, err := l.RemoveAt(*st.At); err != nil {
			return err
		}

	case OpRemove:
		n, err := st.node(l)
		if err != nil {
			return err
		}
		if _, err := l.Remove(n); err != nil {
			return err
		}

	case OpSet:
		if _, err := l.Set(*st.At, st.Value); err != nil {
			return err
		}

	case OpClear:
		l.Clear()

	case OpPrint:
		vs := l.Slice()
		if st.Backward {
			vs = slices.Collect(l.Backward())
		}
		util.PrintValues(out, vs)

	case OpExpect:
		want := st.values()
		got := l.Slice()
		if st.Backward {
			got = slices.Collect(l.Backward())
		}
		if !slices.Equal(got, want) {
			return fmt.Errorf("list is %q, want %q", got, want)
		}

	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}
