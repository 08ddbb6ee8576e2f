// Package metrics defines the registry's custom Prometheus collectors. It is
// the single source of truth for metric names, labels, and help strings.
//
// Collectors are registered against the Registerer passed to New, so each
// App (and each test) owns an isolated registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "registry"

// Login results.
const (
	LoginSuccess = "success"
	LoginFailure = "invalid_credentials"
	LoginLocked  = "locked"
)

// Metrics groups every custom collector. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	// LoginAttempts counts POST /token outcomes.
	// Label:
	//   - result: "success", "invalid_credentials" or "locked"
	LoginAttempts *prometheus.CounterVec

	// TokenRejections counts bearer tokens refused by the auth middleware.
	// Label:
	//   - reason: "missing", "invalid" or "unknown_user"
	TokenRejections *prometheus.CounterVec

	// Mutations counts successful writes.
	// Labels:
	//   - resource: "user" or "project"
	//   - op: "create", "update" or "delete"
	Mutations *prometheus.CounterVec

	// AuditDroppedTotal counts audit events discarded because a shard was full.
	AuditDroppedTotal prometheus.Counter

	// AuditFailedTotal counts audit events the sink refused.
	AuditFailedTotal prometheus.Counter

	reg prometheus.Registerer
}

// New creates and registers all collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Total number of token requests, by result.",
		}, []string{"result"}),
		TokenRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_rejections_total",
			Help:      "Total number of rejected bearer tokens, by reason.",
		}, []string{"reason"}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Total number of successful create/update/delete operations.",
		}, []string{"resource", "op"}),
		AuditDroppedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_dropped_total",
			Help:      "Audit events dropped because the dispatcher queue was full or stopped.",
		}),
		AuditFailedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_failed_total",
			Help:      "Audit events the sink failed to record.",
		}),
		reg: reg,
	}
}

// RegisterAuditQueueDepth exposes the dispatcher backlog as a gauge.
func (m *Metrics) RegisterAuditQueueDepth(pending func() int) {
	if m == nil {
		return
	}
	promauto.With(m.reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Audit events waiting in the dispatcher.",
	}, func() float64 { return float64(pending()) })
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) TokenRejected(reason string) {
	if m == nil {
		return
	}
	m.TokenRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) Mutation(resource, op string) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(resource, op).Inc()
}

// AuditDropped and AuditFailed satisfy queue.Observer.
func (m *Metrics) AuditDropped() {
	if m == nil {
		return
	}
	m.AuditDroppedTotal.Inc()
}

func (m *Metrics) AuditFailed() {
	if m == nil {
		return
	}
	m.AuditFailedTotal.Inc()
}
