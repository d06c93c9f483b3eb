// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInitMissingFileKeepsDefaults(t *testing.T) {
	Keys = ProgramConfig{
		Addr:             "127.0.0.1:7777",
		MaxHistory:       10,
		CommandQueueSize: 10000,
		StatsInterval:    "5m",
	}

	Init(filepath.Join(t.TempDir(), "config.json"))

	if Keys.Addr != "127.0.0.1:7777" || Keys.MaxHistory != 10 {
		t.Errorf("defaults were modified: %+v", Keys)
	}
}

func TestInit(t *testing.T) {
	Keys = ProgramConfig{
		Addr:             "127.0.0.1:7777",
		MaxHistory:       10,
		CommandQueueSize: 10000,
		StatsInterval:    "5m",
	}

	const testconfig = `{
	"addr": "0.0.0.0:9999",
	"max-history": 25,
	"stats-interval": "",
	"nats": {
		"address": "nats://localhost:4222",
		"subscriptions": [
			{ "subscribe-to": "state.updates", "cluster-tag": "fritz", "ttl": 300 }
		]
	}
}`

	file := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(file, []byte(testconfig), 0o666); err != nil {
		t.Fatal(err)
	}

	Init(file)

	if Keys.Addr != "0.0.0.0:9999" {
		t.Errorf("addr = %q, want 0.0.0.0:9999", Keys.Addr)
	}
	if Keys.MaxHistory != 25 {
		t.Errorf("max-history = %d, want 25", Keys.MaxHistory)
	}
	if Keys.CommandQueueSize != 10000 {
		t.Errorf("command-queue-size = %d, want untouched default", Keys.CommandQueueSize)
	}
	if Keys.StatsInterval != "" {
		t.Errorf("stats-interval = %q, want empty", Keys.StatsInterval)
	}
	if Keys.Nats == nil {
		t.Error("nats config missing")
	}
}
