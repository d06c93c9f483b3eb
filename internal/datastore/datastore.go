// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package datastore wraps the nestedmap trie with the concurrency model of
// the store: a single event-loop goroutine owns the trie and the expiration
// heap, and all reads and writes travel through a bounded command channel.
// No lock guards the trie; exclusive ownership by the loop is the discipline.
//
// Writes may carry a TTL. The loop registers the expiration and performs the
// write in one handler step, and a single rearmable timer set to the heap
// minimum drives removals.
package datastore

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ClusterCockpit/cc-state-store/internal/nestedmap"
)

// ErrStoreClosed is returned once Shutdown has been called.
var ErrStoreClosed = errors.New("datastore: store closed")

// DefaultQueueSize is the command channel capacity used when the config
// does not override it. Producers that fill the queue block on send.
const DefaultQueueSize = 10000

type opKind int

const (
	opSet opKind = iota
	opGet
	opQuery
	opDelete
	opDeleteByID
	opDeleteAtIndex
)

// command is one unit of work for the event loop. The reply channel is
// buffered so the loop never blocks on a caller that gave up waiting.
type command struct {
	op       opKind
	segments []string
	item     nestedmap.Item
	opts     nestedmap.SetOptions
	getOpts  nestedmap.GetOptions
	// expiresAt is the wall-clock deadline for TTL writes; zero means the
	// write does not expire.
	expiresAt time.Time
	id        int64
	index     int
	reply     chan response
}

type response struct {
	item    nestedmap.Item
	found   bool
	items   []nestedmap.Item
	deleted bool
}

// Stats is a point-in-time snapshot of the operation counters.
type Stats struct {
	Sets        int64
	Gets        int64
	Queries     int64
	Deletes     int64
	Expirations int64
	QueueDepth  int
	HeapSize    int
}

// Datastore is the public face of the store. All methods are safe for
// concurrent use; every operation is serialized through the event loop.
type Datastore struct {
	commands chan command
	done     chan struct{}

	// idCounter stamps every set with a process-monotonic version id.
	// It lives outside the loop so producers can mint ids without a
	// round-trip; relaxed atomic ordering is all uniqueness needs.
	idCounter atomic.Int64

	// closeMu guards the closed flag against concurrent channel sends:
	// producers hold the read side across their (possibly blocking) send,
	// Shutdown takes the write side before closing the channel.
	closeMu sync.RWMutex
	closed  bool

	maxHistory int

	sets        atomic.Int64
	gets        atomic.Int64
	queries     atomic.Int64
	deletes     atomic.Int64
	expirations atomic.Int64
	heapSize    atomic.Int64
}

// New creates a store whose leaf histories are bounded by maxHistory and
// starts its event loop. queueSize <= 0 selects DefaultQueueSize.
func New(maxHistory, queueSize int) *Datastore {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	ds := &Datastore{
		commands:   make(chan command, queueSize),
		done:       make(chan struct{}),
		maxHistory: maxHistory,
	}

	go ds.run()
	return ds
}

// Shutdown closes the command channel, waits for the event loop to drain
// pending commands and exit. Further operations return ErrStoreClosed.
// Shutdown is idempotent.
func (ds *Datastore) Shutdown() {
	ds.closeMu.Lock()
	if !ds.closed {
		ds.closed = true
		close(ds.commands)
	}
	ds.closeMu.Unlock()

	<-ds.done
}

func (ds *Datastore) enqueue(ctx context.Context, cmd command) error {
	ds.closeMu.RLock()
	defer ds.closeMu.RUnlock()

	if ds.closed {
		return ErrStoreClosed
	}

	select {
	case ds.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (ds *Datastore) roundTrip(ctx context.Context, cmd command) (response, error) {
	cmd.reply = make(chan response, 1)
	if err := ds.enqueue(ctx, cmd); err != nil {
		return response{}, err
	}

	select {
	case resp := <-cmd.reply:
		return resp, nil
	case <-ctx.Done():
		// The command stays enqueued; the loop's reply lands in the
		// buffered channel and is discarded with it.
		return response{}, ctx.Err()
	}
}

// Set stores value at key. A positive TTL in opts schedules removal of
// exactly this version. The returned id identifies the written version.
func (ds *Datastore) Set(ctx context.Context, key string, value []byte, opts nestedmap.SetOptions) (int64, error) {
	segments, err := nestedmap.SplitKey(key)
	if err != nil {
		return 0, err
	}

	id := ds.idCounter.Add(1)
	item := nestedmap.Item{
		Key:       key,
		Value:     append([]byte(nil), value...),
		Timestamp: time.Now(),
		ID:        id,
	}

	cmd := command{
		op:       opSet,
		segments: segments,
		item:     item,
		opts:     opts,
	}
	if opts.TTL > 0 {
		cmd.expiresAt = item.Timestamp.Add(opts.TTL)
	}

	if _, err := ds.roundTrip(ctx, cmd); err != nil {
		return 0, err
	}

	ds.sets.Add(1)
	return id, nil
}

// Get returns the newest version at the exact key.
func (ds *Datastore) Get(ctx context.Context, key string) (nestedmap.Item, bool, error) {
	segments, err := nestedmap.SplitKey(key)
	if err != nil {
		return nestedmap.Item{}, false, err
	}

	resp, err := ds.roundTrip(ctx, command{op: opGet, segments: segments})
	if err != nil {
		return nestedmap.Item{}, false, err
	}

	ds.gets.Add(1)
	return resp.item, resp.found, nil
}

// Query returns all items matched by pattern, up to HistoryCount newest
// versions per leaf.
func (ds *Datastore) Query(ctx context.Context, pattern string, opts nestedmap.GetOptions) ([]nestedmap.Item, error) {
	segments, err := nestedmap.SplitPattern(pattern)
	if err != nil {
		return nil, err
	}

	resp, err := ds.roundTrip(ctx, command{op: opQuery, segments: segments, getOpts: opts})
	if err != nil {
		return nil, err
	}

	ds.queries.Add(1)
	return resp.items, nil
}

// Delete removes the whole subtree rooted at key and reports whether a node
// was removed.
func (ds *Datastore) Delete(ctx context.Context, key string) (bool, error) {
	segments, err := nestedmap.SplitKey(key)
	if err != nil {
		return false, err
	}

	resp, err := ds.roundTrip(ctx, command{op: opDelete, segments: segments})
	if err != nil {
		return false, err
	}

	ds.deletes.Add(1)
	return resp.deleted, nil
}

// DeleteByID removes the single version with the given id at key.
func (ds *Datastore) DeleteByID(ctx context.Context, key string, id int64) (bool, error) {
	segments, err := nestedmap.SplitKey(key)
	if err != nil {
		return false, err
	}

	resp, err := ds.roundTrip(ctx, command{op: opDeleteByID, segments: segments, id: id})
	if err != nil {
		return false, err
	}

	ds.deletes.Add(1)
	return resp.deleted, nil
}

// DeleteAtIndex removes the index-th newest version at key.
func (ds *Datastore) DeleteAtIndex(ctx context.Context, key string, index int) (bool, error) {
	segments, err := nestedmap.SplitKey(key)
	if err != nil {
		return false, err
	}

	resp, err := ds.roundTrip(ctx, command{op: opDeleteAtIndex, segments: segments, index: index})
	if err != nil {
		return false, err
	}

	ds.deletes.Add(1)
	return resp.deleted, nil
}

// Stats returns a snapshot of the operation counters.
func (ds *Datastore) Stats() Stats {
	return Stats{
		Sets:        ds.sets.Load(),
		Gets:        ds.gets.Load(),
		Queries:     ds.queries.Load(),
		Deletes:     ds.deletes.Load(),
		Expirations: ds.expirations.Load(),
		QueueDepth:  len(ds.commands),
		HeapSize:    int(ds.heapSize.Load()),
	}
}
