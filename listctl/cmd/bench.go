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
	"container/list"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"
	"time"

	"github.com/google/btree"
	"github.com/google/subcommands"
	"gvisor.dev/compactlist/listctl/cmd/util"
	"gvisor.dev/compactlist/listctl/config"
	"gvisor.dev/compactlist/pkg/compactlist"
	"gvisor.dev/compactlist/pkg/log"
)

// Bench implements subcommands.Command for the "bench" command.
type Bench struct {
	only string
}

// Name implements subcommands.Command.
func (*Bench) Name() string {
	return "bench"
}

// Synopsis implements subcommands.Command.
func (*Bench) Synopsis() string {
	return "compares the compact list against other containers"
}

// Usage implements subcommands.Command.
func (*Bench) Usage() string {
	return `bench [flags]

Each workload appends -bench-size elements, walks them front to back and
then removes them from the front, -bench-rounds times.
`
}

// SetFlags implements subcommands.Command.
func (b *Bench) SetFlags(f *flag.FlagSet) {
	f.StringVar(&b.only, "only", "", "run only the named workload.")
}

// Execute implements subcommands.Command.Execute.
func (b *Bench) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)

	var ws []Workload
	for _, w := range Workloads {
		if b.only == "" || b.only == w.Name {
			ws = append(ws, w)
		}
	}
	if len(ws) == 0 {
		util.Fatalf("unknown workload %q", b.only)
	}

	var results []Result
	for _, w := range ws {
		log.Infof("Running workload %q: size %d, rounds %d", w.Name, conf.BenchSize, conf.BenchRounds)
		results = append(results, Measure(w, conf.BenchSize, conf.BenchRounds))
	}
	if err := WriteResults(os.Stdout, results); err != nil {
		util.Fatalf("writing results: %v", err)
	}
	if rss, err := maxRSS(); err != nil {
		log.Warningf("Reading peak RSS: %v", err)
	} else {
		fmt.Printf("peak RSS: %d KiB\n", rss)
	}
	return subcommands.ExitSuccess
}

// Workload is one container exercised by the bench command. Run returns a
// checksum of the values it saw so that every workload can be checked to do
// the same work.
type Workload struct {
	Name string
	Run  func(size int) uint64
}

// Workloads lists the containers bench knows about.
var Workloads = []Workload{
	{Name: "compactlist", Run: runCompactList},
	{Name: "container/list", Run: runContainerList},
	{Name: "btree", Run: runBTree},
}

func runCompactList(size int) uint64 {
	l, err := compactlist.NewWithExpectedSize[int](size)
	if err != nil {
		panic(err)
	}
	for i := 0; i < size; i++ {
		l.Append(i)
	}
	var sum uint64
	for v := range l.Values() {
		sum += uint64(v)
	}
	for l.Len() > 0 {
		v, err := l.RemoveAt(0)
		if err != nil {
			panic(err)
		}
		sum += uint64(v)
	}
	return sum
}

func runContainerList(size int) uint64 {
	l := list.New()
	for i := 0; i < size; i++ {
		l.PushBack(i)
	}
	var sum uint64
	for e := l.Front(); e != nil; e = e.Next() {
		sum += uint64(e.Value.(int))
	}
	for l.Len() > 0 {
		sum += uint64(l.Remove(l.Front()).(int))
	}
	return sum
}

// runBTree keys the tree by insertion order, which is what an ordered
// container needs to stand in for a list.
func runBTree(size int) uint64 {
	t := btree.NewG(32, func(a, b int) bool { return a < b })
	for i := 0; i < size; i++ {
		t.ReplaceOrInsert(i)
	}
	var sum uint64
	t.Ascend(func(v int) bool {
		sum += uint64(v)
		return true
	})
	for t.Len() > 0 {
		v, _ := t.DeleteMin()
		sum += uint64(v)
	}
	return sum
}

// Result holds the cost of running a workload.
type Result struct {
	Name     string
	Elapsed  time.Duration
	Allocs   uint64
	Bytes    uint64
	Checksum uint64
}

// Measure runs w rounds times and reports the totals.
func Measure(w Workload, size, rounds int) Result {
	runtime.GC()
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()

	var sum uint64
	for range rounds {
		sum += w.Run(size)
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)
	return Result{
		Name:     w.Name,
		Elapsed:  elapsed,
		Allocs:   after.Mallocs - before.Mallocs,
		Bytes:    after.TotalAlloc - before.TotalAlloc,
		Checksum: sum,
	}
}

// WriteResults writes results to w as an aligned table.
func WriteResults(w io.Writer, results []Result) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "WORKLOAD\tTIME\tALLOCS\tBYTES\tCHECKSUM")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%v\t%d\t%d\t%d\n", r.Name, r.Elapsed.Round(time.Microsecond), r.Allocs, r.Bytes, r.Checksum)
	}
	return tw.Flush()
}
