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

// Package config provides basic infrastructure to set configuration settings
// for listctl. Settings come from command line flags and, optionally, a TOML
// file named by --config. Flags given explicitly on the command line take
// precedence over the file.
package config

import (
	"flag"
	"fmt"
	"io"
	"reflect"
	"time"

	"github.com/BurntSushi/toml"
	"gvisor.dev/compactlist/pkg/log"
)

// Config holds configuration that is not part of any single subcommand.
//
// Fields with a `flag` tag are bound to the flag of that name by
// RegisterFlags and NewFromFlags.
type Config struct {
	// LogFilename is the filename to log to, if not empty. Logs go to stderr
	// otherwise.
	LogFilename string `flag:"log" toml:"log"`

	// LogFormat is the log format: "text" or "json".
	LogFormat string `flag:"log-format" toml:"log-format"`

	// LogLevel is the name of the lowest level that is logged.
	LogLevel string `flag:"log-level" toml:"log-level"`

	// Debug forces debug logging regardless of LogLevel.
	Debug bool `flag:"debug" toml:"debug"`

	// LogEvery bounds per-step logging during replays to one line per
	// interval.
	LogEvery time.Duration `flag:"log-every" toml:"log-every"`

	// ExpectedSize pre-sizes lists built by replays that do not set their
	// own expected size.
	ExpectedSize int `flag:"expected-size" toml:"expected-size"`

	// BenchSize is the default number of elements per benchmark workload.
	BenchSize int `flag:"bench-size" toml:"bench-size"`

	// BenchRounds is the default number of rounds per benchmark workload.
	BenchRounds int `flag:"bench-rounds" toml:"bench-rounds"`
}

// configFlag names the flag that points to a TOML file.
const configFlag = "config"

// RegisterFlags registers flags used to populate Config.
func RegisterFlags(flagSet *flag.FlagSet) {
	flagSet.String(configFlag, "", "path to a TOML file with default settings. Flags given on the command line override it.")

	// Logging flags.
	flagSet.String("log", "", "file path where logs are written, default is stderr.")
	flagSet.String("log-format", "text", "log format: text (default) or json.")
	flagSet.String("log-level", "warning", "lowest level logged: warning (default), info or debug.")
	flagSet.Bool("debug", false, "enable debug logging.")
	flagSet.Duration("log-every", 100*time.Millisecond, "minimum interval between per-step log lines during replay.")

	// List and benchmark flags.
	flagSet.Int("expected-size", 0, "initial capacity of lists built by replay.")
	flagSet.Int("bench-size", 100000, "number of elements per benchmark workload.")
	flagSet.Int("bench-rounds", 5, "number of rounds per benchmark workload.")
}

// NewFromFlags creates a new Config with values coming from the given flag
// set and, if --config is set, the file it names.
func NewFromFlags(flagSet *flag.FlagSet) (*Config, error) {
	conf := &Config{}
	if err := conf.setFromFlags(flagSet, func(*flag.Flag) bool { return true }); err != nil {
		return nil, err
	}

	if f := flagSet.Lookup(configFlag); f != nil && f.Value.String() != "" {
		path := f.Value.String()
		if _, err := toml.DecodeFile(path, conf); err != nil {
			return nil, fmt.Errorf("loading config file %q: %w", path, err)
		}
		explicit := make(map[string]bool)
		flagSet.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
		if err := conf.setFromFlags(flagSet, func(f *flag.Flag) bool { return explicit[f.Name] }); err != nil {
			return nil, err
		}
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// setFromFlags copies the value of every selected flag into the field bound
// to it.
func (c *Config) setFromFlags(flagSet *flag.FlagSet, selected func(*flag.Flag) bool) error {
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name := t.Field(i).Tag.Get("flag")
		if name == "" {
			continue
		}
		f := flagSet.Lookup(name)
		if f == nil {
			return fmt.Errorf("flag %q not registered", name)
		}
		if !selected(f) {
			continue
		}
		getter, ok := f.Value.(flag.Getter)
		if !ok {
			return fmt.Errorf("flag %q does not implement flag.Getter", name)
		}
		val := reflect.ValueOf(getter.Get())
		if !val.Type().AssignableTo(v.Field(i).Type()) {
			return fmt.Errorf("flag %q has type %v, field %s has type %v", name, val.Type(), t.Field(i).Name, v.Field(i).Type())
		}
		v.Field(i).Set(val)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, must be text or json", c.LogFormat)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.LogEvery < 0 {
		return fmt.Errorf("log-every must not be negative, got %v", c.LogEvery)
	}
	if c.ExpectedSize < 0 {
		return fmt.Errorf("expected-size must not be negative, got %d", c.ExpectedSize)
	}
	if c.BenchSize <= 0 || c.BenchRounds <= 0 {
		return fmt.Errorf("bench-size and bench-rounds must be positive, got %d and %d", c.BenchSize, c.BenchRounds)
	}
	return nil
}

// Level returns the effective log level.
func (c *Config) Level() log.Level {
	if c.Debug {
		return log.Debug
	}
	// Validated by NewFromFlags.
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.Warning
	}
	return level
}

// WriteTOML writes the configuration in the format accepted by --config.
func (c *Config) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Log logs important aspects of the configuration to the given log function.
func (c *Config) Log() {
	if !log.IsLogging(log.Debug) {
		return
	}
	log.Debugf("Config:")
	v := reflect.ValueOf(c).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		log.Debugf("\t%s: %v", t.Field(i).Name, v.Field(i).Interface())
	}
}
