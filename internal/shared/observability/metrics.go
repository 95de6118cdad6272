package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	RelevanceChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenbridge_relevance_checks_total",
		Help: "Total number of change-relevance checks, by outcome.",
	}, []string{"outcome"})

	RelevanceCheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tokenbridge_relevance_check_seconds",
		Help:    "Time spent deciding whether a changed file warrants a rebuild.",
		Buckets: prometheus.DefBuckets,
	})

	GraphNodesVisited = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tokenbridge_graph_nodes_visited",
		Help:    "Module graph nodes visited per relevance traversal.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tokenbridge_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	BuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenbridge_builds_total",
		Help: "Total number of token build executions, by result.",
	}, []string{"result"})

	BuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tokenbridge_build_seconds",
		Help:    "Wall time of one token build execution.",
		Buckets: prometheus.DefBuckets,
	})

	ModuleExecutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tokenbridge_module_executions_total",
		Help: "Modules executed through the embedded loader, by kind.",
	}, []string{"kind"})
)
