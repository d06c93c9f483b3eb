// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/ClusterCockpit/cc-state-store/internal/api"
	"github.com/ClusterCockpit/cc-state-store/internal/config"
	"github.com/ClusterCockpit/cc-state-store/internal/datastore"
	"github.com/ClusterCockpit/cc-state-store/internal/metrics"
	"github.com/ClusterCockpit/cc-state-store/internal/taskManager"
	"github.com/ClusterCockpit/cc-state-store/pkg/nats"
	"github.com/google/gops/agent"
	"github.com/joho/godotenv"
)

var (
	date    string
	commit  string
	version string
)

func main() {
	cliInit()

	if flagVersion {
		fmt.Print(versionInfo())
		os.Exit(0)
	}

	cclog.Init(flagLogLevel, flagLogDateTime)

	// See https://github.com/google/gops (Runtime overhead is almost zero)
	if flagGops {
		if err := agent.Listen(agent.Options{}); err != nil {
			cclog.Abortf("Could not start gops agent with 'gops/agent.Listen(agent.Options{})'. Application startup failed, exited.\nError: %s\n", err.Error())
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		cclog.Abortf("Could not parse existing .env file at location './.env'. Application startup failed, exited.\nError: %s\n", err.Error())
	}

	config.Init(flagConfigFile)

	store := datastore.New(config.Keys.MaxHistory, config.Keys.CommandQueueSize)
	metrics.Register(store)

	if config.Keys.Nats != nil {
		if err := nats.Init(config.Keys.Nats); err != nil {
			cclog.Abortf("Could not decode the 'nats' section of '%s'.\nError: %s\n", flagConfigFile, err.Error())
		}
		nats.Connect()
		api.StartIngest(store)
	}

	taskManager.Start(store)

	serverInit(store)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		serverStart()
	}()

	wg.Add(1)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer wg.Done()
		<-sigs
		serverShutdown()

		if nc := nats.GetClient(); nc != nil {
			nc.Close()
		}

		taskManager.Shutdown()
		store.Shutdown()
	}()

	wg.Wait()
	cclog.Print("Graceful shutdown completed!")
}

func versionInfo() string {
	if version == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			version = info.Main.Version
		}
	}

	return fmt.Sprintf("cc-state-store version %s\ngit commit hash: %s\nbuild date: %s\n",
		version, commit, date)
}
