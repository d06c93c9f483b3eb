// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads and validates the program configuration from a JSON
// file into the package-global Keys.
package config

import (
	"bytes"
	"encoding/json"
	"os"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
)

// ProgramConfig is the format of the configuration file. See the embedded
// schema for per-key documentation.
type ProgramConfig struct {
	// Address where the http server will listen on
	Addr string `json:"addr"`

	// Upper bound on the number of versions kept per key
	MaxHistory int `json:"max-history"`

	// Capacity of the event-loop command queue
	CommandQueueSize int `json:"command-queue-size"`

	// Interval at which store counters are logged; empty disables the job
	StatsInterval string `json:"stats-interval"`

	// Forwarded to pkg/nats; absent disables the NATS ingest
	Nats json.RawMessage `json:"nats"`
}

var Keys ProgramConfig = ProgramConfig{
	Addr:             "127.0.0.1:7777",
	MaxHistory:       10,
	CommandQueueSize: 10000,
	StatsInterval:    "5m",
}

// Init overwrites the defaults in Keys with the settings from the given
// file. A missing file is fine and leaves the defaults in place; a file
// that does not validate against the schema aborts startup.
func Init(flagConfigFile string) {
	raw, err := os.ReadFile(flagConfigFile)
	if err != nil {
		if !os.IsNotExist(err) {
			cclog.Abortf("Config Init: Could not read config file '%s'.\nError: %s\n",
				flagConfigFile, err.Error())
		}
		return
	}

	Validate(configSchema, raw)

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&Keys); err != nil {
		cclog.Abortf("Config Init: Could not decode config file '%s'.\nError: %s\n",
			flagConfigFile, err.Error())
	}
}
