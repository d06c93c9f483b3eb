// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config

import "github.com/ClusterCockpit/cc-state-store/pkg/nats"

const configSchema = `{
    "type": "object",
    "description": "Program configuration of cc-state-store.",
    "properties": {
        "addr": {
            "description": "Address where the http server will listen on, for example 'localhost:7777'.",
            "type": "string"
        },
        "max-history": {
            "description": "Upper bound on the number of versions kept per key. Writes with preserve-history push older versions down until this bound, then the oldest is evicted.",
            "type": "integer",
            "minimum": 1
        },
        "command-queue-size": {
            "description": "Capacity of the store's command queue. Producers block once it is full.",
            "type": "integer",
            "minimum": 1
        },
        "stats-interval": {
            "description": "Interval at which store counters are logged, as a Go duration string. Empty disables the job.",
            "type": "string"
        },
        "nats": ` + nats.ConfigSchema + `
    }
}`
