// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package datastore

import (
	"container/heap"
	"time"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/ClusterCockpit/cc-state-store/internal/nestedmap"
)

// run is the event loop. It is the only goroutine that ever touches the
// trie and the expiration heap. One timer is kept armed to the heap minimum;
// every heap change that moves the minimum rearms it.
func (ds *Datastore) run() {
	nm := nestedmap.New(ds.maxHistory)
	ttl := expirationHeap{}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	park := func() {
		if !timer.Stop() && armed {
			select {
			case <-timer.C:
			default:
			}
		}
		armed = false
	}

	rearm := func() {
		park()
		if len(ttl) > 0 {
			// A deadline already in the past fires immediately.
			timer.Reset(time.Until(ttl[0].expiresAt))
			armed = true
		}
	}

	for {
		select {
		case cmd, ok := <-ds.commands:
			if !ok {
				// All producers are gone and the buffer is drained.
				park()
				close(ds.done)
				return
			}
			ds.dispatch(nm, &ttl, cmd, rearm)

		case <-timer.C:
			armed = false
			ds.expire(nm, &ttl, time.Now())
			rearm()
		}
	}
}

// dispatch runs one command to completion against the owned state. Commands
// never suspend: a TTL write registers its expiration and stores the item in
// the same step, so no interleaving can separate the two.
func (ds *Datastore) dispatch(nm *nestedmap.NestedMap, ttl *expirationHeap, cmd command, rearm func()) {
	var resp response

	switch cmd.op {
	case opSet:
		nm.Set(cmd.segments, cmd.item, cmd.opts)
		if !cmd.expiresAt.IsZero() {
			newMin := len(*ttl) == 0 || cmd.expiresAt.Before((*ttl)[0].expiresAt)
			heap.Push(ttl, expiration{
				expiresAt: cmd.expiresAt,
				id:        cmd.item.ID,
				segments:  cmd.segments,
			})
			ds.heapSize.Store(int64(len(*ttl)))
			if newMin {
				rearm()
			}
		}
		resp.found = true

	case opGet:
		resp.item, resp.found = nm.Get(cmd.segments)

	case opQuery:
		resp.items = nm.Query(cmd.segments, cmd.getOpts)

	case opDelete:
		resp.deleted = nm.Delete(cmd.segments)

	case opDeleteByID:
		resp.deleted = nm.DeleteByID(cmd.segments, cmd.id)

	case opDeleteAtIndex:
		resp.deleted = nm.DeleteAtIndex(cmd.segments, cmd.index)
	}

	if cmd.reply != nil {
		// Buffered; never blocks even when the caller timed out.
		cmd.reply <- resp
	}
}

// expire pops every entry whose deadline has passed and removes the exact
// version it references. A version that was already evicted or deleted is
// silently skipped.
func (ds *Datastore) expire(nm *nestedmap.NestedMap, ttl *expirationHeap, now time.Time) {
	for len(*ttl) > 0 && !(*ttl)[0].expiresAt.After(now) {
		entry := heap.Pop(ttl).(expiration)
		if nm.DeleteByID(entry.segments, entry.id) {
			ds.expirations.Add(1)
			cclog.Debugf("expired key:%s id:%d", nestedmap.JoinKey(entry.segments), entry.id)
		}
	}
	ds.heapSize.Store(int64(len(*ttl)))
}
