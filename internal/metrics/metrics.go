// Copyright (C) NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved. This file is part of cc-state-store.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exposes the store's operation counters and the ingest
// counters in Prometheus exposition format.
package metrics

import (
	"net/http"

	"github.com/ClusterCockpit/cc-state-store/internal/datastore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IngestedLines counts NATS telemetry lines written into the store,
// IngestErrors the lines or batches dropped due to decode or store errors.
var (
	IngestedLines = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ccss_ingested_lines_total",
		Help: "Telemetry lines ingested via NATS.",
	})
	IngestErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ccss_ingest_errors_total",
		Help: "Telemetry lines dropped due to decode or store errors.",
	})
)

var (
	setsDesc        = prometheus.NewDesc("ccss_sets_total", "Completed set operations.", nil, nil)
	getsDesc        = prometheus.NewDesc("ccss_gets_total", "Completed get operations.", nil, nil)
	queriesDesc     = prometheus.NewDesc("ccss_queries_total", "Completed query operations.", nil, nil)
	deletesDesc     = prometheus.NewDesc("ccss_deletes_total", "Completed delete operations.", nil, nil)
	expirationsDesc = prometheus.NewDesc("ccss_expirations_total", "Versions removed by TTL expiration.", nil, nil)
	queueDepthDesc  = prometheus.NewDesc("ccss_command_queue_depth", "Commands waiting in the event-loop queue.", nil, nil)
	heapSizeDesc    = prometheus.NewDesc("ccss_expiration_heap_size", "Pending TTL expirations.", nil, nil)
)

// storeCollector reads a counter snapshot from the datastore on every
// scrape. The store keeps the counters; nothing is double-tracked here.
type storeCollector struct {
	ds *datastore.Datastore
}

func (c storeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- setsDesc
	ch <- getsDesc
	ch <- queriesDesc
	ch <- deletesDesc
	ch <- expirationsDesc
	ch <- queueDepthDesc
	ch <- heapSizeDesc
}

func (c storeCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.ds.Stats()
	ch <- prometheus.MustNewConstMetric(setsDesc, prometheus.CounterValue, float64(s.Sets))
	ch <- prometheus.MustNewConstMetric(getsDesc, prometheus.CounterValue, float64(s.Gets))
	ch <- prometheus.MustNewConstMetric(queriesDesc, prometheus.CounterValue, float64(s.Queries))
	ch <- prometheus.MustNewConstMetric(deletesDesc, prometheus.CounterValue, float64(s.Deletes))
	ch <- prometheus.MustNewConstMetric(expirationsDesc, prometheus.CounterValue, float64(s.Expirations))
	ch <- prometheus.MustNewConstMetric(queueDepthDesc, prometheus.GaugeValue, float64(s.QueueDepth))
	ch <- prometheus.MustNewConstMetric(heapSizeDesc, prometheus.GaugeValue, float64(s.HeapSize))
}

// Register hooks the store's counters into the default registry.
func Register(ds *datastore.Datastore) {
	prometheus.MustRegister(storeCollector{ds: ds})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
