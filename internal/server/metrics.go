//----------------------------------------------------------------------
// This file is part of Chatrouille.
// Copyright (C) 2020-2024 the Chatrouille authors
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus instrumentation for a Host. A fresh set is
// created per Host so multiple hosts can coexist in the same process
// (handy for tests) without colliding on the default registry.
type metrics struct {
	packetsUnpacked *prometheus.CounterVec
	unpackErrors    *prometheus.CounterVec
	packLatency     prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		packetsUnpacked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chatrouille_packets_unpacked_total",
			Help: "Number of query packets successfully unpacked, by mode.",
		}, []string{"mode"}),
		unpackErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "chatrouille_unpack_errors_total",
			Help: "Number of query packets rejected, by error kind.",
		}, []string{"kind"}),
		packLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "chatrouille_pack_response_seconds",
			Help:    "Time spent packing a response packet.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
