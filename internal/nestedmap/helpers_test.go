// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nestedmap

import (
	"sort"
	"testing"
	"time"
)

var testID int64

func testItem(key string, value []byte) Item {
	testID++
	return Item{
		Key:       key,
		Value:     value,
		Timestamp: time.Now(),
		ID:        testID,
	}
}

// mustSet is the write path used throughout the package tests: split the
// dotted key, stamp a fresh item and store it.
func mustSet(t *testing.T, nm *NestedMap, key string, value []byte, opts SetOptions) Item {
	t.Helper()

	segments, err := SplitKey(key)
	if err != nil {
		t.Fatalf("SplitKey(%q): %v", key, err)
	}

	item := testItem(key, value)
	nm.Set(segments, item, opts)
	return item
}

// valuesByKey sorts items by key and returns their values as strings. Query
// ordering across leaves is only stable per traversal, so tests compare
// after sorting.
func valuesByKey(items []Item) []string {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Key != sorted[j].Key {
			return sorted[i].Key < sorted[j].Key
		}
		return sorted[i].ID > sorted[j].ID
	})

	values := make([]string, len(sorted))
	for i, item := range sorted {
		values[i] = string(item.Value)
	}
	return values
}
