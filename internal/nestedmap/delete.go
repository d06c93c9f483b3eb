// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nestedmap

// Delete removes the entire subtree rooted at the path, including any leaf
// history stored there. It reports whether a node was removed.
func (nm *NestedMap) Delete(segments []string) bool {
	if len(segments) == 0 {
		return false
	}

	parent := nm.walk(segments[:len(segments)-1])
	if parent == nil {
		return false
	}

	last := segments[len(segments)-1]
	if _, ok := parent.children[last]; !ok {
		return false
	}

	delete(parent.children, last)
	return true
}

// DeleteByID removes the single version with the given id from the leaf
// history at the path. It reports whether a version was removed; a missing
// path or id is not an error, expiration relies on that.
func (nm *NestedMap) DeleteByID(segments []string, id int64) bool {
	lvl := nm.walk(segments)
	if lvl == nil {
		return false
	}

	for i, item := range lvl.items {
		if item.ID == id {
			lvl.items = append(lvl.items[:i], lvl.items[i+1:]...)
			if len(lvl.items) == 0 {
				lvl.items = nil
			}
			return true
		}
	}

	return false
}

// DeleteAtIndex removes the index-th newest version from the leaf history at
// the path. Index 0 is the newest version.
func (nm *NestedMap) DeleteAtIndex(segments []string, index int) bool {
	lvl := nm.walk(segments)
	if lvl == nil || index < 0 || index >= len(lvl.items) {
		return false
	}

	lvl.items = append(lvl.items[:index], lvl.items[index+1:]...)
	if len(lvl.items) == 0 {
		lvl.items = nil
	}
	return true
}
