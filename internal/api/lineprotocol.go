// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package api

import (
	"context"
	"fmt"
	"strconv"
	"time"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/ClusterCockpit/cc-state-store/internal/datastore"
	"github.com/ClusterCockpit/cc-state-store/internal/metrics"
	"github.com/ClusterCockpit/cc-state-store/internal/nestedmap"
	"github.com/ClusterCockpit/cc-state-store/pkg/nats"
	"github.com/influxdata/line-protocol/v2/lineprotocol"
)

// StartIngest subscribes to every configured NATS subject. Each message is
// a batch of InfluxDB line-protocol lines; a line
//
//	ifstate,cluster=fritz,hostname=sw01,type=eth0 value="up" 1699000000
//
// is stored at the key fritz.sw01.eth0.ifstate. Decode failures are logged
// and dropped, ingest never takes the server down.
func StartIngest(ds *datastore.Datastore) {
	nc := nats.GetClient()
	if nc == nil {
		if len(nats.Keys.Subscriptions) > 0 {
			cclog.Warn("NATS subscriptions configured but no connection established")
		}
		return
	}

	for _, sub := range nats.Keys.Subscriptions {
		sc := sub
		err := nc.Subscribe(sc.SubscribeTo, func(subject string, data []byte) {
			dec := lineprotocol.NewDecoderWithBytes(data)
			if err := decodeLines(dec, ds, sc); err != nil {
				metrics.IngestErrors.Inc()
				cclog.Errorf("ingest from '%s': %s", subject, err.Error())
			}
		})
		if err != nil {
			cclog.Errorf("ingest: %s", err.Error())
		}
	}
}

// decodeLines writes all lines of one batch into the store. The key is
// assembled from the cluster tag (or the subscription default), the host
// tag, an optional type tag and the measurement name.
func decodeLines(dec *lineprotocol.Decoder, ds *datastore.Datastore, sub nats.Subscription) error {
	opts := nestedmap.SetOptions{PreserveHistory: sub.PreserveHistory}
	if sub.TTLSeconds > 0 {
		opts.TTL = time.Duration(sub.TTLSeconds) * time.Second
	}

	for dec.Next() {
		rawMeasurement, err := dec.Measurement()
		if err != nil {
			return err
		}
		measurement := string(rawMeasurement)

		cluster, host, typ := sub.ClusterTag, "", ""
		for {
			key, val, err := dec.NextTag()
			if err != nil {
				return err
			}
			if key == nil {
				break
			}

			switch string(key) {
			case "cluster":
				cluster = string(val)
			case "hostname", "host":
				host = string(val)
			case "type":
				typ = string(val)
			default:
			}
		}

		var value []byte
		for {
			key, val, err := dec.NextField()
			if err != nil {
				return err
			}
			if key == nil {
				break
			}
			if string(key) != "value" {
				continue
			}

			switch val.Kind() {
			case lineprotocol.String:
				value = []byte(val.StringV())
			case lineprotocol.Float:
				value = strconv.AppendFloat(nil, val.FloatV(), 'f', -1, 64)
			case lineprotocol.Int:
				value = strconv.AppendInt(nil, val.IntV(), 10)
			case lineprotocol.Uint:
				value = strconv.AppendUint(nil, val.UintV(), 10)
			case lineprotocol.Bool:
				value = strconv.AppendBool(nil, val.BoolV())
			default:
				return fmt.Errorf("unsupported value type in message: %s", val.Kind().String())
			}
		}

		if cluster == "" || host == "" || value == nil {
			metrics.IngestErrors.Inc()
			cclog.Warnf("dropping line '%s': missing cluster, host or value", measurement)
			continue
		}

		key := cluster + nestedmap.Delimiter + host + nestedmap.Delimiter
		if typ != "" && typ != "node" {
			key += typ + nestedmap.Delimiter
		}
		key += measurement

		if _, err := ds.Set(context.Background(), key, value, opts); err != nil {
			metrics.IngestErrors.Inc()
			cclog.Warnf("dropping line '%s': %s", key, err.Error())
			continue
		}
		metrics.IngestedLines.Inc()
	}

	return nil
}
