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

// Package util groups helpers shared by listctl subcommands.
package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
	"gvisor.dev/compactlist/pkg/log"
)

// ErrorLogger, if set, receives a plain copy of every error message. It is
// set to stderr when logs go to a file, so the caller of listctl, e.g. a
// script, still sees errors. It must not be the log target.
var ErrorLogger io.Writer

// Errorf logs an error, and copies it to ErrorLogger if set.
func Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	log.Warningf("%s", msg)
	if ErrorLogger != nil {
		fmt.Fprint(ErrorLogger, msg)
	}
}

// Fatalf logs an error and exits.
func Fatalf(format string, args ...any) {
	Errorf(format, args...)
	os.Exit(128)
}

// IsTerminal returns true iff w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// PrintValues writes vs to w. Terminals get a single bracketed line; anything
// else gets one value per line so the output can be piped to other tools.
func PrintValues[T any](w io.Writer, vs []T) {
	if IsTerminal(w) {
		parts := make([]string, 0, len(vs))
		for _, v := range vs {
			parts = append(parts, fmt.Sprint(v))
		}
		fmt.Fprintf(w, "[%s]\n", strings.Join(parts, " "))
		return
	}
	for _, v := range vs {
		fmt.Fprintln(w, v)
	}
}
