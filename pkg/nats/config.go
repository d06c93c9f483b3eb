// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package nats

import (
	"bytes"
	"encoding/json"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
)

// Config holds the connection settings plus the subjects the state store
// ingests telemetry from.
type Config struct {
	Address       string `json:"address"`         // NATS server address (e.g., "nats://localhost:4222")
	Username      string `json:"username"`        // Username for authentication (optional)
	Password      string `json:"password"`        // Password for authentication (optional)
	CredsFilePath string `json:"creds-file-path"` // Path to credentials file (optional)

	Subscriptions []Subscription `json:"subscriptions"`
}

// Subscription describes one ingest subject and how its lines are stored.
type Subscription struct {
	// Channel name
	SubscribeTo string `json:"subscribe-to"`

	// Allow lines without a cluster tag, use this as default, optional
	ClusterTag string `json:"cluster-tag"`

	// Keep a version history for ingested paths instead of replacing
	// the newest version in place.
	PreserveHistory bool `json:"preserve-history"`

	// Expire ingested versions after this many seconds. Zero or negative
	// keeps them until overwritten.
	TTLSeconds int64 `json:"ttl"`
}

// Keys holds the global NATS configuration loaded via Init.
var Keys Config

const ConfigSchema = `{
    "type": "object",
    "description": "Configuration for the NATS ingest client.",
    "properties": {
        "address": {
            "description": "Address of the NATS server (e.g., 'nats://localhost:4222').",
            "type": "string"
        },
        "username": {
            "description": "Username for NATS authentication (optional).",
            "type": "string"
        },
        "password": {
            "description": "Password for NATS authentication (optional).",
            "type": "string"
        },
        "creds-file-path": {
            "description": "Path to NATS credentials file for authentication (optional).",
            "type": "string"
        },
        "subscriptions": {
            "description": "Subjects to ingest telemetry lines from.",
            "type": "array",
            "items": {
                "type": "object",
                "properties": {
                    "subscribe-to": {
                        "description": "Channel name.",
                        "type": "string"
                    },
                    "cluster-tag": {
                        "description": "Default cluster tag for lines that carry none (optional).",
                        "type": "string"
                    },
                    "preserve-history": {
                        "description": "Keep a version history for ingested paths.",
                        "type": "boolean"
                    },
                    "ttl": {
                        "description": "Expire ingested versions after this many seconds (optional).",
                        "type": "integer"
                    }
                },
                "required": ["subscribe-to"]
            }
        }
    },
    "required": ["address"]
}`

// Init initializes the global Keys configuration from JSON.
func Init(rawConfig json.RawMessage) error {
	var err error

	if rawConfig != nil {
		dec := json.NewDecoder(bytes.NewReader(rawConfig))
		dec.DisallowUnknownFields()
		if err = dec.Decode(&Keys); err != nil {
			cclog.Errorf("Error while initializing nats client: %s", err.Error())
		}
	}

	return err
}
