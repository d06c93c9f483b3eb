// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nestedmap

// Query returns the items matched by pattern, up to HistoryCount newest
// versions per matched leaf. Within a leaf the order is newest first; across
// leaves it is the lexicographic traversal order of the trie.
//
// A node visited on the way to deeper pattern segments does not contribute
// its own history: "a.b.*" surfaces the children of a.b but not a.b itself,
// and the collector skips the node it is anchored at.
func (nm *NestedMap) Query(pattern []string, opts GetOptions) []Item {
	historyCount := opts.HistoryCount
	if historyCount < 1 {
		historyCount = 1
	}

	var results []Item
	results = queryLevel(&nm.root, pattern, results, historyCount)
	return results
}

func queryLevel(lvl *level, pattern []string, results []Item, historyCount int) []Item {
	if len(pattern) == 0 {
		return lvl.appendNewest(results, historyCount)
	}

	switch pattern[0] {
	case Wildcard:
		for _, key := range lvl.childKeys() {
			results = queryLevel(lvl.children[key], pattern[1:], results, historyCount)
		}
	case Collector:
		if len(pattern) == 1 {
			results = collectAll(lvl, results, true, historyCount)
		}
		// A non-terminal collector addresses nothing.
	default:
		child, ok := lvl.children[pattern[0]]
		if ok {
			results = queryLevel(child, pattern[1:], results, historyCount)
		}
	}

	return results
}

// collectAll gathers every leaf history at and below lvl. The node the
// collector was anchored at is skipped; everything underneath is emitted.
func collectAll(lvl *level, results []Item, skipCurrent bool, historyCount int) []Item {
	if !skipCurrent {
		results = lvl.appendNewest(results, historyCount)
	}

	for _, key := range lvl.childKeys() {
		results = collectAll(lvl.children[key], results, false, historyCount)
	}

	return results
}
