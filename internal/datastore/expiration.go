// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package datastore

import (
	"time"

	"github.com/ClusterCockpit/cc-state-store/internal/nestedmap"
)

// expiration schedules the removal of one specific version: the id pins the
// version, the segments address its leaf. Firing for a version that is
// already gone (evicted by the history bound or deleted) is a no-op.
type expiration struct {
	expiresAt time.Time
	id        int64
	segments  []string
}

// expirationHeap is a min-heap over deadlines, owned exclusively by the
// event loop. Ties are broken by id, then path, so the pop order is
// deterministic.
type expirationHeap []expiration

func (h expirationHeap) Len() int { return len(h) }

func (h expirationHeap) Less(i, j int) bool {
	if !h[i].expiresAt.Equal(h[j].expiresAt) {
		return h[i].expiresAt.Before(h[j].expiresAt)
	}
	if h[i].id != h[j].id {
		return h[i].id < h[j].id
	}
	return nestedmap.JoinKey(h[i].segments) < nestedmap.JoinKey(h[j].segments)
}

func (h expirationHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *expirationHeap) Push(x any) {
	*h = append(*h, x.(expiration))
}

func (h *expirationHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	*h = old[:n-1]
	return entry
}
