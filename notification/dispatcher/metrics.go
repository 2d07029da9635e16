package dispatcher

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "educenter",
		Subsystem: "notification",
		Name:      "dispatch_tasks_total",
		Help:      "Dispatch tasks by channel and outcome.",
	}, []string{"channel", "status"})

	unmappedEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "educenter",
		Subsystem: "notification",
		Name:      "unmapped_events_total",
		Help:      "Domain events received without a notification mapping.",
	}, []string{"event_id"})
)
