// Copyright 2018 The gVisor Authors.
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
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestLevelJSON(t *testing.T) {
	for _, tc := range []struct {
		level Level
		want  string
	}{
		{Warning, `"warning"`},
		{Info, `"info"`},
		{Debug, `"debug"`},
	} {
		b, err := json.Marshal(tc.level)
		if err != nil {
			t.Fatalf("json.Marshal(%v) failed: %v", tc.level, err)
		}
		if got := string(b); got != tc.want {
			t.Errorf("json.Marshal(%v) = %s, want %s", tc.level, got, tc.want)
		}
		var back Level
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("json.Unmarshal(%s) failed: %v", b, err)
		}
		if back != tc.level {
			t.Errorf("json.Unmarshal(%s) = %v, want %v", b, back, tc.level)
		}
	}

	if _, err := json.Marshal(Level(7)); err == nil {
		t.Errorf("json.Marshal(Level(7)) succeeded, want error")
	}
}

func TestLevelUnmarshalJSON(t *testing.T) {
	for _, tc := range []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "0", want: Warning},
		{in: "1", want: Info},
		{in: "2", want: Debug},
		{in: `"warn"`, want: Warning},
		{in: `"DEBUG"`, want: Debug},
		{in: "3", wantErr: true},
		{in: "-1", wantErr: true},
		{in: `"verbose"`, wantErr: true},
	} {
		var got Level
		err := got.UnmarshalJSON([]byte(tc.in))
		if tc.wantErr {
			if err == nil {
				t.Errorf("UnmarshalJSON(%s) = %v, want error", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("UnmarshalJSON(%s) failed: %v", tc.in, err)
		} else if got != tc.want {
			t.Errorf("UnmarshalJSON(%s) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestJSONEmitter(t *testing.T) {
	tw := &testWriter{}
	e := JSONEmitter{&Writer{Next: tw}}
	ts := time.Date(2024, time.May, 7, 13, 4, 5, 0, time.UTC)
	e.Emit(0, Info, ts, "grew %d -> %d", 10, 15)

	if len(tw.lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(tw.lines), tw.lines)
	}
	var got jsonLog
	if err := json.Unmarshal([]byte(tw.lines[0]), &got); err != nil {
		t.Fatalf("json.Unmarshal(%q): %v", tw.lines[0], err)
	}
	if got.Msg != "grew 10 -> 15" || got.Level != Info || !got.Time.Equal(ts) {
		t.Errorf("got %+v, want msg %q level %v time %v", got, "grew 10 -> 15", Info, ts)
	}
	if !strings.HasPrefix(got.Caller, "json_test.go:") {
		t.Errorf("caller = %q, want json_test.go:<line>", got.Caller)
	}
}
