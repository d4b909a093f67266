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

// Replay implements subcommands.Command for the "replay" command.
type Replay struct {
	output string
	quiet  bool
}

// Name implements subcommands.Command.
func (*Replay) Name() string {
	return "replay"
}

// Synopsis implements subcommands.Command.
func (*Replay) Synopsis() string {
	return "applies the list operations of a YAML scenario"
}

// Usage implements subcommands.Command.
func (*Replay) Usage() string {
	return `replay [flags] <scenario.yaml>...
`
}

// SetFlags implements subcommands.Command.
func (r *Replay) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.output, "output", "", "target to write print steps to.")
	f.BoolVar(&r.quiet, "quiet", false, "suppress the final contents of each list.")
}

// Execute implements subcommands.Command.Execute.
func (r *Replay) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)

	output := os.Stdout
	if r.output != "" {
		out, err := os.OpenFile(r.output, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
		if err != nil {
			util.Fatalf("error opening output: %v", err)
		}
		defer func() {
			if err := out.Close(); err != nil {
				util.Fatalf("error flushing output: %v", err)
			}
		}()
		output = out
	}

	// Failures return rather than exit so that output is flushed.
	if err := r.replay(conf, f.Args(), output); err != nil {
		util.Errorf("%v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// replay runs the scenarios in paths in order, stopping at the first
// failure. Output of the scenarios that ran stays in output.
func (r *Replay) replay(conf *config.Config, paths []string, output io.Writer) error {
	logger := log.BasicRateLimitedLogger(conf.LogEvery)
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return err
		}
		size := s.ExpectedSize
		if size == 0 {
			size = conf.ExpectedSize
		}
		l, err := compactlist.NewWithExpectedSize[string](size)
		if err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		log.Infof("Replaying scenario %q from %s, %d steps", s.Name, path, len(s.Steps))
		if err := s.Run(l, output, logger); err != nil {
			return fmt.Errorf("scenario %q: %w", s.Name, err)
		}
		if n := logger.Suppressed(); n > 0 {
			log.Debugf("Suppressed %d step log lines", n)
		}
		if !r.quiet {
			util.PrintValues(output, l.Slice())
		}
	}
	return nil
}
