// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package taskManager

import (
	"time"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/ClusterCockpit/cc-state-store/internal/datastore"
	"github.com/go-co-op/gocron/v2"
)

// RegisterStatsService logs the store's counters at the given interval.
func RegisterStatsService(ds *datastore.Datastore, interval time.Duration) {
	cclog.Infof("Register stats service with %s interval", interval)

	s.NewJob(gocron.DurationJob(interval),
		gocron.NewTask(
			func() {
				st := ds.Stats()
				cclog.Infof("store stats: sets=%d gets=%d queries=%d deletes=%d expirations=%d queue=%d heap=%d",
					st.Sets, st.Gets, st.Queries, st.Deletes,
					st.Expirations, st.QueueDepth, st.HeapSize)
			}))
}
