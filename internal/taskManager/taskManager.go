// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package taskManager schedules the periodic background jobs of the state
// store.
package taskManager

import (
	"time"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/ClusterCockpit/cc-state-store/internal/config"
	"github.com/ClusterCockpit/cc-state-store/internal/datastore"
	"github.com/go-co-op/gocron/v2"
)

var s gocron.Scheduler

// Start creates the scheduler and registers all configured jobs.
func Start(ds *datastore.Datastore) {
	if config.Keys.StatsInterval == "" {
		cclog.Info("TaskManager: stats reporting disabled")
		return
	}

	interval, err := time.ParseDuration(config.Keys.StatsInterval)
	if err != nil {
		cclog.Warnf("Could not parse duration for stats interval: %v", config.Keys.StatsInterval)
		return
	}
	if interval <= 0 {
		cclog.Info("TaskManager: stats interval is zero")
		return
	}

	s, err = gocron.NewScheduler()
	if err != nil {
		cclog.Abortf("TaskManager Start: Could not create gocron scheduler.\nError: %s\n", err.Error())
	}

	RegisterStatsService(ds, interval)

	s.Start()
}

func Shutdown() {
	if s != nil {
		s.Shutdown()
	}
}
