// Copyright 2018 Google LLC
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

package log

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type testWriter struct {
	lines []string
	fail  bool
}

func (w *testWriter) Write(bytes []byte) (int, error) {
	if w.fail {
		return 0, fmt.Errorf("simulated failure")
	}
	w.lines = append(w.lines, string(bytes))
	return len(bytes), nil
}

func TestDropMessages(t *testing.T) {
	tw := &testWriter{}
	w := Writer{Next: tw}
	if _, err := w.Write([]byte("line 1\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	tw.fail = true
	if _, err := w.Write([]byte("error\n")); err == nil {
		t.Fatalf("Write should have failed")
	}
	if _, err := w.Write([]byte("error\n")); err == nil {
		t.Fatalf("Write should have failed")
	}

	tw.fail = false
	if _, err := w.Write([]byte("line 2\n")); err != nil {
		t.Fatalf("Write failed, err: %v", err)
	}

	want := []string{
		"line 1\n",
		"\n*** Dropped 2 log messages ***\n",
		"line 2\n",
	}
	if diff := cmp.Diff(want, tw.lines); diff != "" {
		t.Errorf("Writer lines mismatch (-want +got):\n%s", diff)
	}
}

func TestLevels(t *testing.T) {
	tw := &testWriter{}
	l := &BasicLogger{Level: Info, Emitter: &Writer{Next: tw}}

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Warningf("warning %d", 3)
	if want := []string{"info 2", "warning 3"}; !cmp.Equal(want, tw.lines) {
		t.Errorf("at Info got %q, want %q", tw.lines, want)
	}

	tw.lines = nil
	l.SetLevel(Debug)
	l.Debugf("debug %d", 4)
	if want := []string{"debug 4"}; !cmp.Equal(want, tw.lines) {
		t.Errorf("at Debug got %q, want %q", tw.lines, want)
	}
	if !l.IsLogging(Debug) {
		t.Errorf("IsLogging(Debug) = false after SetLevel(Debug)")
	}
}

func TestParseLevel(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "warning", want: Warning},
		{in: "WARN", want: Warning},
		{in: "info", want: Info},
		{in: "Debug", want: Debug},
		{in: "verbose", wantErr: true},
	} {
		got, err := ParseLevel(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if err == nil && got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGoogleEmitter(t *testing.T) {
	tw := &testWriter{}
	e := GoogleEmitter{&Writer{Next: tw}}
	ts := time.Date(2024, time.May, 7, 13, 4, 5, 123456000, time.UTC)
	e.Emit(0, Warning, ts, "hello %s", "world")

	if len(tw.lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(tw.lines), tw.lines)
	}
	re := regexp.MustCompile(`^W0507 13:04:05\.123456 +\d+ log_test\.go:\d+\] hello world\n$`)
	if !re.MatchString(tw.lines[0]) {
		t.Errorf("line %q does not match %v", tw.lines[0], re)
	}
}

func TestRateLimited(t *testing.T) {
	tw := &testWriter{}
	l := &BasicLogger{Level: Debug, Emitter: &Writer{Next: tw}}
	rl := RateLimitedLogger(l, time.Hour)

	rl.Infof("first")
	rl.Infof("second")
	rl.Debugf("third")
	if got, want := rl.Suppressed(), uint64(2); got != want {
		t.Errorf("Suppressed() = %d, want %d", got, want)
	}
	if want := []string{"first"}; !cmp.Equal(want, tw.lines) {
		t.Errorf("got %q, want %q", tw.lines, want)
	}

	// Messages below the logger's level are not counted as suppressed.
	l.SetLevel(Warning)
	rl.Debugf("hidden")
	if got, want := rl.Suppressed(), uint64(2); got != want {
		t.Errorf("Suppressed() after filtered message = %d, want %d", got, want)
	}

	rl.annotate("x")
	if got := rl.Suppressed(); got != 0 {
		t.Errorf("Suppressed() after annotate = %d, want 0", got)
	}
}

func TestRateLimitedAnnotate(t *testing.T) {
	rl := RateLimitedLogger(&BasicLogger{Level: Info, Emitter: &Writer{Next: &testWriter{}}}, time.Hour)
	rl.suppressed.Store(3)
	if got := rl.annotate("msg %d"); !strings.HasSuffix(got, "(3 similar messages suppressed)") {
		t.Errorf("annotate() = %q, want suppression count suffix", got)
	}
	if got := rl.annotate("msg"); got != "msg" {
		t.Errorf("annotate() with nothing suppressed = %q, want %q", got, "msg")
	}
}
