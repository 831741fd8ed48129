package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	noteOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "note_tree",
		Name:      "note_operations_total",
		Help:      "Note hierarchy operations by kind and result.",
	}, []string{"op", "result"})

	imageMirrorTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "note_tree",
		Name:      "image_mirror_total",
		Help:      "Image mirror uploads to object storage by result.",
	}, []string{"result"})

	backupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "note_tree",
		Name:      "backup_duration_seconds",
		Help:      "Duration of note backup exports.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})
)
