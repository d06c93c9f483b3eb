// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nestedmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueries(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(nm *NestedMap)
		pattern    string
		history    int
		maxHistory int
		want       []string // values, sorted by item key
	}{
		{
			name: "exact match",
			setup: func(nm *NestedMap) {
				mustSet(t, nm, "a.b.c", []byte("exact value"), SetOptions{})
			},
			pattern:    "a.b.c",
			maxHistory: 1,
			want:       []string{"exact value"},
		},
		{
			name: "wildcard match",
			setup: func(nm *NestedMap) {
				mustSet(t, nm, "a.b.c", []byte("wildcard value abc"), SetOptions{})
				mustSet(t, nm, "a.b.x", []byte("wildcard value abx"), SetOptions{})
				mustSet(t, nm, "a.b.y", []byte("wildcard value aby"), SetOptions{})
				mustSet(t, nm, "a.b.z.z", []byte("wildcard value abzz"), SetOptions{})
			},
			pattern:    "a.b.*",
			maxHistory: 1,
			want: []string{
				"wildcard value abc",
				"wildcard value abx",
				"wildcard value aby",
			},
		},
		{
			name: "wildcard in the middle",
			setup: func(nm *NestedMap) {
				mustSet(t, nm, "a.b.c", []byte("abc"), SetOptions{})
				mustSet(t, nm, "a.x.c", []byte("axc"), SetOptions{})
				mustSet(t, nm, "a.y.d", []byte("ayd"), SetOptions{})
			},
			pattern:    "a.*.c",
			maxHistory: 1,
			want:       []string{"abc", "axc"},
		},
		{
			name: "prefix collector skips its anchor",
			setup: func(nm *NestedMap) {
				mustSet(t, nm, "a.b.c", []byte("prefix value abc"), SetOptions{})
				mustSet(t, nm, "a.b.x", []byte("prefix value abx"), SetOptions{})
				mustSet(t, nm, "a.b.y", []byte("prefix value aby"), SetOptions{})
				mustSet(t, nm, "a.b.y.z", []byte("prefix value abyz"), SetOptions{})
				mustSet(t, nm, "a.b.y.z.z", []byte("prefix value abyzz"), SetOptions{})
			},
			pattern:    "a.b.y.>",
			maxHistory: 1,
			want:       []string{"prefix value abyz", "prefix value abyzz"},
		},
		{
			name: "midpoint history is not emitted",
			setup: func(nm *NestedMap) {
				mustSet(t, nm, "a.b", []byte("ab"), SetOptions{})
				mustSet(t, nm, "a.b.c", []byte("abc"), SetOptions{})
			},
			pattern:    "a.b.*",
			maxHistory: 1,
			want:       []string{"abc"},
		},
		{
			name: "collector is only valid as final segment",
			setup: func(nm *NestedMap) {
				mustSet(t, nm, "a.b.c", []byte("abc"), SetOptions{})
			},
			pattern:    "a.>.c",
			maxHistory: 1,
			want:       []string{},
		},
		{
			name:       "no matches",
			setup:      func(nm *NestedMap) {},
			pattern:    "a.b.*",
			maxHistory: 1,
			want:       []string{},
		},
		{
			name: "history count caps per leaf",
			setup: func(nm *NestedMap) {
				mustSet(t, nm, "a.b", []byte("h1"), SetOptions{PreserveHistory: true})
				mustSet(t, nm, "a.b", []byte("h2"), SetOptions{PreserveHistory: true})
				mustSet(t, nm, "a.b", []byte("h3"), SetOptions{PreserveHistory: true})
			},
			pattern:    "a.b",
			history:    2,
			maxHistory: 5,
			want:       []string{"h3", "h2"},
		},
		{
			name: "history count above leaf size returns full history",
			setup: func(nm *NestedMap) {
				mustSet(t, nm, "a.b", []byte("h1"), SetOptions{PreserveHistory: true})
				mustSet(t, nm, "a.b", []byte("h2"), SetOptions{PreserveHistory: true})
			},
			pattern:    "a.b",
			history:    10,
			maxHistory: 5,
			want:       []string{"h2", "h1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nm := New(tt.maxHistory)
			tt.setup(nm)

			pattern, err := SplitPattern(tt.pattern)
			if err != nil {
				t.Fatalf("SplitPattern(%q): %v", tt.pattern, err)
			}

			items := nm.Query(pattern, GetOptions{HistoryCount: tt.history})
			assert.ElementsMatch(t, tt.want, valuesByKey(items))
		})
	}
}

func TestQueryMatchesGetOnLiteralPattern(t *testing.T) {
	nm := New(1)
	want := mustSet(t, nm, "iface.eth0.oper", []byte("up"), SetOptions{})

	segments, _ := SplitKey("iface.eth0.oper")
	item, ok := nm.Get(segments)
	if !ok {
		t.Fatal("expected item")
	}

	items := nm.Query(segments, GetOptions{})
	if len(items) != 1 {
		t.Fatalf("query returned %d items, want 1", len(items))
	}
	if items[0].ID != item.ID || items[0].ID != want.ID {
		t.Error("query over a literal pattern must return the same item as get")
	}

	if absent := nm.Query([]string{"iface", "eth1", "oper"}, GetOptions{}); len(absent) != 0 {
		t.Errorf("query on absent path returned %d items", len(absent))
	}
}

func TestQueryHistoryCountDefaultsToOne(t *testing.T) {
	nm := New(5)
	mustSet(t, nm, "a", []byte("old"), SetOptions{PreserveHistory: true})
	mustSet(t, nm, "a", []byte("new"), SetOptions{PreserveHistory: true})

	for _, count := range []int{0, -3} {
		items := nm.Query([]string{"a"}, GetOptions{HistoryCount: count})
		if len(items) != 1 || string(items[0].Value) != "new" {
			t.Errorf("HistoryCount=%d: got %d items, want newest only", count, len(items))
		}
	}
}
