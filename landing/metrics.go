package landing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeViews = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coldemail_landing_views_active",
		Help: "Number of live landing views",
	})

	viewTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coldemail_landing_view_transitions_total",
		Help: "Landing view state transitions by target panel",
	}, []string{"to"})
)
