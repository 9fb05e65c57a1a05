package dashboard

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// dispatchTotal counts routed operations.
	// Labels: operation, tier, source (synthetic, backend)
	dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "educator_insights",
		Subsystem: "dashboard",
		Name:      "dispatch_total",
		Help:      "Dashboard operations by tier and serving provider",
	}, []string{"operation", "tier", "source"})

	// deniedTotal counts operations refused to demo sessions.
	deniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "educator_insights",
		Subsystem: "dashboard",
		Name:      "demo_denied_total",
		Help:      "Backend-only operations refused to demo sessions",
	}, []string{"operation"})
)
