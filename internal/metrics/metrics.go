// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics defines the Prometheus collectors exported on /metrics.
// Collectors are registered on the default registry at init via promauto.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values shared by the business counters.
const (
	ResultSuccess = "success"
	ResultInvalid = "invalid"
	ResultError   = "error"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// Business metrics
	registrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receitas_registrations_total",
			Help: "Author registration attempts by result",
		},
		[]string{"result"},
	)

	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receitas_logins_total",
			Help: "Author login attempts by result",
		},
		[]string{"result"},
	)

	searchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "receitas_searches_total",
			Help: "Recipe searches with a non-empty term",
		},
	)

	pageCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "receitas_page_cache_total",
			Help: "Page cache lookups by result",
		},
		[]string{"result"},
	)
)

// ObserveRequest records one served HTTP request. path must be a route
// pattern, not the raw URL, to keep label cardinality bounded.
func ObserveRequest(method, path string, status int, d time.Duration) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	httpRequestDuration.WithLabelValues(method, path, code).Observe(d.Seconds())
}

// Registration records the outcome of a registration attempt.
func Registration(result string) {
	registrationsTotal.WithLabelValues(result).Inc()
}

// Login records the outcome of a login attempt.
func Login(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

// Search records a recipe search.
func Search() {
	searchesTotal.Inc()
}

// PageCache records a page cache lookup.
func PageCache(hit bool) {
	if hit {
		pageCacheTotal.WithLabelValues(CacheHit).Inc()
		return
	}
	pageCacheTotal.WithLabelValues(CacheMiss).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
