// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package api

import (
	"context"
	"testing"

	"github.com/ClusterCockpit/cc-state-store/internal/datastore"
	"github.com/ClusterCockpit/cc-state-store/internal/nestedmap"
	"github.com/ClusterCockpit/cc-state-store/pkg/nats"
	"github.com/influxdata/line-protocol/v2/lineprotocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeBatch(t *testing.T, ds *datastore.Datastore, sub nats.Subscription, batch string) error {
	t.Helper()
	dec := lineprotocol.NewDecoderWithBytes([]byte(batch))
	return decodeLines(dec, ds, sub)
}

func TestDecodeLines(t *testing.T) {
	ds := datastore.New(10, 0)
	defer ds.Shutdown()
	ctx := context.Background()

	const batch = `ifstate,cluster=fritz,hostname=sw01,type=eth0 value="up" 1699000000
load_one,cluster=fritz,hostname=host123,type=node value=3.14 1699000000
uptime,hostname=host123 value=42i 1699000000
`

	err := decodeBatch(t, ds, nats.Subscription{ClusterTag: "defaultcluster"}, batch)
	require.NoError(t, err)

	item, found, err := ds.Get(ctx, "fritz.sw01.eth0.ifstate")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("up"), item.Value)

	// type=node is elided from the key.
	item, found, err = ds.Get(ctx, "fritz.host123.load_one")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("3.14"), item.Value)

	// Missing cluster tag falls back to the subscription default.
	item, found, err = ds.Get(ctx, "defaultcluster.host123.uptime")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("42"), item.Value)
}

func TestDecodeLinesPreservesHistory(t *testing.T) {
	ds := datastore.New(10, 0)
	defer ds.Shutdown()

	sub := nats.Subscription{ClusterTag: "c", PreserveHistory: true}
	require.NoError(t, decodeBatch(t, ds, sub, `m,hostname=h value=1i`+"\n"))
	require.NoError(t, decodeBatch(t, ds, sub, `m,hostname=h value=2i`+"\n"))

	items, err := ds.Query(context.Background(), "c.h.m", nestedmap.GetOptions{HistoryCount: 5})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, []byte("2"), items[0].Value)
	assert.Equal(t, []byte("1"), items[1].Value)
}

func TestDecodeLinesDropsIncomplete(t *testing.T) {
	ds := datastore.New(10, 0)
	defer ds.Shutdown()

	// No hostname tag: the line is dropped, the batch succeeds.
	err := decodeBatch(t, ds, nats.Subscription{ClusterTag: "c"}, `m value=1i`+"\n")
	require.NoError(t, err)

	_, found, err := ds.Get(context.Background(), "c.m")
	require.NoError(t, err)
	assert.False(t, found)
}
