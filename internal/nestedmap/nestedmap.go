// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package nestedmap implements the hierarchical key-value trie backing the
// state store. Keys are dot-delimited paths ("bgp.neighbors.10_0_0_1.state"),
// every leaf holds a bounded, newest-first history of versioned items, and
// queries support single-level wildcards ("*") and a terminal multi-level
// collector (">").
//
// A NestedMap is not safe for concurrent use. The datastore package owns a
// single instance inside its event loop and serializes all access to it.
package nestedmap

import (
	"sort"
	"time"
)

const (
	// Delimiter separates path segments in external key representation.
	Delimiter = "."

	// Wildcard matches exactly one segment at its depth in query patterns.
	Wildcard = "*"

	// Collector matches every leaf below the current node. Only meaningful
	// as the final pattern segment.
	Collector = ">"

	// valueKey is the reserved marker segment for a node's leaf history.
	// The in-memory layout keeps histories in a dedicated field, so the
	// marker is never stored; SplitKey rejects it as a key segment.
	valueKey = "__VALUE__"
)

// Item is one version of the value stored at a path.
type Item struct {
	Key       string    `json:"key"`
	Value     []byte    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	ID        int64     `json:"id"`
}

// SetOptions control a single write.
type SetOptions struct {
	// PreserveHistory pushes the new version in front of the existing ones
	// instead of replacing the newest version in place.
	PreserveHistory bool

	// TTL schedules removal of exactly this version after the duration has
	// elapsed. Zero or negative disables expiration. The trie itself does
	// not interpret this field; the datastore event loop does.
	TTL time.Duration
}

// GetOptions control reads that may return more than the newest version.
type GetOptions struct {
	// HistoryCount is the maximum number of versions returned per matched
	// leaf, newest first. Values below one are treated as one.
	HistoryCount int
}

// Could also be called "node". Inner levels can hold a leaf history in
// `items` and children at the same time: a prefix can itself be a key.
type level struct {
	children map[string]*level
	items    []Item
}

// NestedMap is the root of the trie plus the per-leaf history bound.
type NestedMap struct {
	root       level
	maxHistory int
}

// New creates an empty trie whose leaf histories hold at most maxHistory
// versions. A bound below one is raised to one.
func New(maxHistory int) *NestedMap {
	if maxHistory < 1 {
		maxHistory = 1
	}

	return &NestedMap{
		root:       level{},
		maxHistory: maxHistory,
	}
}

// MaxHistory returns the per-leaf history bound.
func (nm *NestedMap) MaxHistory() int {
	return nm.maxHistory
}

// walk follows literal segments down from the root. It returns nil if any
// segment is missing.
func (nm *NestedMap) walk(segments []string) *level {
	lvl := &nm.root
	for _, seg := range segments {
		child, ok := lvl.children[seg]
		if !ok {
			return nil
		}
		lvl = child
	}
	return lvl
}

// childKeys returns the segment names of a level's children in lexicographic
// order. Query results are only ordered per leaf, but iterating sorted keeps
// the traversal order stable across runs.
func (lvl *level) childKeys() []string {
	if len(lvl.children) == 0 {
		return nil
	}

	keys := make([]string, 0, len(lvl.children))
	for k := range lvl.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// appendNewest copies up to historyCount of the newest items of this level
// into dst.
func (lvl *level) appendNewest(dst []Item, historyCount int) []Item {
	n := min(len(lvl.items), historyCount)
	return append(dst, lvl.items[:n]...)
}
