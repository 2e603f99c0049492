package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan outcomes and kinds used as label values.
const (
	KindHall = "hall"
	KindFood = "food"

	OutcomeEntry      = "entry"
	OutcomeExit       = "exit"
	OutcomeMovement   = "movement"
	OutcomeAllowed    = "allowed"
	OutcomeDenied     = "denied"
	OutcomeSuppressed = "suppressed"
	OutcomeRejected   = "rejected"
)

var (
	// ScansTotal counts processed scans by kind and outcome.
	ScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventpass_scans_total",
		Help: "Number of scan requests by kind and outcome.",
	}, []string{"kind", "outcome"})

	// RegistrationsTotal counts registration attempts by outcome.
	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventpass_registrations_total",
		Help: "Number of registration attempts by outcome.",
	}, []string{"outcome"})

	// DedupEntries reports the current size of the dedup guard map.
	DedupEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "eventpass_dedup_entries",
		Help: "Current number of entries held by the scan dedup guard.",
	})

	// AuditWriteFailures counts swallowed audit write errors.
	AuditWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "eventpass_audit_write_failures_total",
		Help: "Number of audit records dropped because the write failed.",
	})
)
