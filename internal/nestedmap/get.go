// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nestedmap

// Get returns the newest version stored at the exact path, or false when the
// path does not exist or holds no leaf history.
func (nm *NestedMap) Get(segments []string) (Item, bool) {
	lvl := nm.walk(segments)
	if lvl == nil || len(lvl.items) == 0 {
		return Item{}, false
	}

	return lvl.items[0], true
}
