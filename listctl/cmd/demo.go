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
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"gvisor.dev/compactlist/listctl/cmd/util"
	"gvisor.dev/compactlist/listctl/config"
	"gvisor.dev/compactlist/pkg/compactlist"
	"gvisor.dev/compactlist/pkg/log"
)

// Demo implements subcommands.Command for the "demo" command.
type Demo struct {
	count int
}

// Name implements subcommands.Command.
func (*Demo) Name() string {
	return "demo"
}

// Synopsis implements subcommands.Command.
func (*Demo) Synopsis() string {
	return "walks through a short sequence of list edits"
}

// Usage implements subcommands.Command.
func (*Demo) Usage() string {
	return `demo [flags]
`
}

// SetFlags implements subcommands.Command.
func (d *Demo) SetFlags(f *flag.FlagSet) {
	f.IntVar(&d.count, "count", 10, "number of elements to start with, at least 7.")
}

// Execute implements subcommands.Command.Execute.
func (d *Demo) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)
	if err := RunDemo(os.Stdout, d.count, conf.ExpectedSize); err != nil {
		util.Fatalf("demo: %v", err)
	}
	return subcommands.ExitSuccess
}

// RunDemo builds the list count-1, ..., 1, 0 by pushing to the front, then
// removes the elements at positions 3 to 5, inserts 333 after the element
// at position 3 and 444 after that same element, and finally pushes 111.
// Each stage is printed to w.
func RunDemo(w io.Writer, count, expectedSize int) error {
	if count < 7 {
		return fmt.Errorf("count must be at least 7, got %d", count)
	}
	l, err := compactlist.NewWithExpectedSize[int](expectedSize)
	if err != nil {
		return err
	}

	for i := 0; i < count; i++ {
		l.PushFront(i)
	}
	stage(w, "push", l)

	for range 3 {
		if _, err := l.RemoveAt(3); err != nil {
			return err
		}
	}
	stage(w, "remove", l)

	n, err := l.NodeAt(3)
	if err != nil {
		return err
	}
	for _, v := range []int{333, 444} {
		if _, err := l.InsertAfter(n, v); err != nil {
			return err
		}
	}
	stage(w, "insert", l)

	l.PushFront(111)
	stage(w, "push", l)
	return nil
}

func stage(w io.Writer, name string, l *compactlist.List[int]) {
	log.Debugf("demo %s: len %d, cap %d", name, l.Len(), l.Cap())
	fmt.Fprintf(w, "%-7s %v\n", name+":", l)
}
