package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Package-level metrics, registered once at init.
var (
	// BrowseRequests counts resolved DLNA object requests by object kind.
	BrowseRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "melisma_dlna_browse_requests_total",
			Help: "Total number of DLNA object resolutions processed",
		},
		[]string{"kind"},
	)

	// UnknownIdentifiers counts requests whose object id matched no known form.
	UnknownIdentifiers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "melisma_dlna_unknown_identifiers_total",
			Help: "Total number of unresolvable DLNA object ids",
		},
	)

	// FolderCacheHits counts folder cache hits by region.
	FolderCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "melisma_dlna_folder_cache_hits_total",
			Help: "Total folder cache hits",
		},
		[]string{"region"},
	)

	// FolderCacheMisses counts folder cache misses by region.
	FolderCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "melisma_dlna_folder_cache_misses_total",
			Help: "Total folder cache misses",
		},
		[]string{"region"},
	)

	// StreamedBytes counts audio bytes served to DLNA clients.
	StreamedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "melisma_dlna_streamed_bytes_total",
			Help: "Total audio bytes served",
		},
	)

	// PlaysRecorded counts scrobbles submitted to the play recorder.
	PlaysRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "melisma_plays_recorded_total",
			Help: "Total plays recorded",
		},
	)

	// PlaysSuppressed counts scrobbles suppressed by the de-duplication window.
	PlaysSuppressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "melisma_plays_suppressed_total",
			Help: "Total duplicate plays suppressed",
		},
	)
)
