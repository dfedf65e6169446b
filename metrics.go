package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// This file defines the Prometheus metrics exposed by the application.

// httpRequestsTotal tracks HTTP requests by path, method and status code.
var httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "skycast_http_requests_total",
	Help: "Total number of HTTP requests by path, method and code.",
}, []string{"path", "method", "code"})

// upstreamRequestsTotal tracks individual attempts against the weather API,
// including key-rotation retries, by endpoint and outcome.
var upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "skycast_upstream_requests_total",
	Help: "Total number of weather API request attempts by endpoint and outcome.",
}, []string{"endpoint", "outcome"})

// searchesTotal tracks search operations by outcome (success, failure, or
// stale for a commit discarded by the sequence guard).
var searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "skycast_searches_total",
	Help: "Total number of search operations by outcome.",
}, []string{"outcome"})

// mediaProbesTotal tracks asset existence probes by result.
var mediaProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "skycast_media_probes_total",
	Help: "Total number of media existence probes by result.",
}, []string{"result"})
