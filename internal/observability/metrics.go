// Package observability provides metrics and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DocumentStoreCalls counts document store operations by type.
	DocumentStoreCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_document_store_calls_total",
		Help: "Total number of document store calls by operation",
	}, []string{"operation"})

	// BlobStoreCalls counts blob store operations by type.
	BlobStoreCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_blob_store_calls_total",
		Help: "Total number of blob store calls by operation",
	}, []string{"operation"})

	// CommitOutcomes counts edit commit results by status.
	CommitOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_edit_commit_outcomes_total",
		Help: "Total number of edit commit attempts by outcome",
	}, []string{"outcome"})

	// DeleteOutcomes counts post delete results by status.
	DeleteOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_post_delete_outcomes_total",
		Help: "Total number of post delete attempts by outcome",
	}, []string{"outcome"})
)
