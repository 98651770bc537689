package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Outcomes of the role-gated page filter, labelled pass|redirect|fail_closed
	GuardDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "route_guard_decisions_total",
		Help: "Route guard outcomes by decision",
	}, []string{"decision"})

	PaymentApprovalDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_approval_latency_seconds",
		Help:    "Latency of the payment approval endpoint",
		Buckets: prometheus.DefBuckets,
	})

	PaymentApprovalTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_approvals_total",
		Help: "Payment approval attempts by result",
	}, []string{"result"})
)

func Init() {
	prometheus.MustRegister(
		GuardDecisions,
		PaymentApprovalDuration,
		PaymentApprovalTotal,
	)
}
