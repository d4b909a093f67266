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

package util

import (
	"bytes"
	"strings"
	"testing"

	"gvisor.dev/compactlist/pkg/log"
)

func TestPrintValuesPipe(t *testing.T) {
	var buf bytes.Buffer
	if IsTerminal(&buf) {
		t.Fatalf("bytes.Buffer reported as a terminal")
	}
	PrintValues(&buf, []int{3, 1, 2})
	if got, want := buf.String(), "3\n1\n2\n"; got != want {
		t.Errorf("PrintValues() wrote %q, want %q", got, want)
	}
}

func TestErrorfWritesErrorLogger(t *testing.T) {
	var buf bytes.Buffer
	ErrorLogger = &buf
	defer func() { ErrorLogger = nil }()

	Errorf("bad step %d", 3)
	if got, want := buf.String(), "bad step 3\n"; got != want {
		t.Errorf("ErrorLogger got %q, want %q", got, want)
	}
}

func TestErrorfWritesEachTargetOnce(t *testing.T) {
	old := log.Log()
	defer log.SetTarget(old.Emitter)
	var logs, errs bytes.Buffer
	log.SetTarget(&log.Writer{Next: &logs})
	ErrorLogger = &errs
	defer func() { ErrorLogger = nil }()

	Errorf("scenario %q failed", "worked")
	const msg = `scenario "worked" failed`
	if got := strings.Count(logs.String(), msg); got != 1 {
		t.Errorf("log target has %d copies of the message, want 1: %q", got, logs.String())
	}
	if got := strings.Count(errs.String(), msg); got != 1 {
		t.Errorf("ErrorLogger has %d copies of the message, want 1: %q", got, errs.String())
	}
}
