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
	"os"

	"github.com/google/subcommands"
	"gvisor.dev/compactlist/listctl/cmd/util"
	"gvisor.dev/compactlist/listctl/config"
)

// PrintConfig implements subcommands.Command for the "config" command.
type PrintConfig struct{}

// Name implements subcommands.Command.
func (*PrintConfig) Name() string {
	return "config"
}

// Synopsis implements subcommands.Command.
func (*PrintConfig) Synopsis() string {
	return "prints the effective configuration as TOML"
}

// Usage implements subcommands.Command.
func (*PrintConfig) Usage() string {
	return `config

The output can be saved and passed back with -config.
`
}

// SetFlags implements subcommands.Command.
func (*PrintConfig) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*PrintConfig) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	conf := args[0].(*config.Config)
	if err := conf.WriteTOML(os.Stdout); err != nil {
		util.Fatalf("writing config: %v", err)
	}
	return subcommands.ExitSuccess
}
