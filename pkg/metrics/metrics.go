// Package metrics defines the custom Prometheus metrics of the plants API.
// It is the single source of truth for metric names, labels, and help strings.
//
// Collectors are created unregistered; call Register once at startup with the
// registry that backs /metrics. Unregistered collectors still count, which keeps
// tests free of global registry state.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "plants"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts access token checks made by the auth middleware.
// Label:
//   - result: "ok", "missing", "malformed" or "expired"
var TokenVerificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of access token verifications, by result.",
	},
	[]string{"result"},
)

// AuthorizationDecisionsTotal counts role checks.
// Label:
//   - decision: "allowed" or "denied"
var AuthorizationDecisionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_decisions_total",
		Help:      "Total number of role-based authorization decisions.",
	},
	[]string{"decision"},
)

// UsersSeededTotal counts default accounts inserted at startup.
var UsersSeededTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_seeded_total",
		Help:      "Total number of default users inserted by startup seeding.",
	},
)

// ── Plant metrics ─────────────────────────────────────────────────────────────

// PlantsWrittenTotal counts successful plant mutations.
// Label:
//   - op: "create", "update" or "delete"
var PlantsWrittenTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plants_written_total",
		Help:      "Total number of plant mutations, by operation.",
	},
	[]string{"op"},
)

// PlantCacheTotal counts plant cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var PlantCacheTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plant_cache_total",
		Help:      "Total number of plant cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// Register adds every collector in this package to reg.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		LoginAttemptsTotal,
		TokenVerificationsTotal,
		AuthorizationDecisionsTotal,
		UsersSeededTotal,
		PlantsWrittenTotal,
		PlantCacheTotal,
	)
}
