package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	// ReconcilePasses counts reconciliation passes by resulting state.
	ReconcilePasses *prometheus.CounterVec

	// ForcedRedirects counts goto intents issued by the reconciler, by target.
	ForcedRedirects *prometheus.CounterVec

	// StaleFetchDiscards counts profile fetches discarded because a newer
	// identity event arrived while the fetch was in flight.
	StaleFetchDiscards prometheus.Counter

	// WizardSubmissions counts wizard form submissions by role and result.
	WizardSubmissions *prometheus.CounterVec
)

// Register initializes the collectors on the default registerer and returns
// the /metrics handler. Safe to call more than once.
func Register() http.Handler {
	registerOnce.Do(func() {
		ReconcilePasses = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reconcile_passes_total",
			Help: "Reconciliation passes by resulting state",
		}, []string{"state"})

		ForcedRedirects = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forced_redirects_total",
			Help: "Navigation intents forcing a screen change, by target",
		}, []string{"target"})

		StaleFetchDiscards = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stale_fetch_discards_total",
			Help: "Profile fetch results discarded by the event recency check",
		})

		WizardSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wizard_submissions_total",
			Help: "Profile wizard submissions by role and result",
		}, []string{"role", "result"})

		prometheus.MustRegister(
			ReconcilePasses, ForcedRedirects, StaleFetchDiscards, WizardSubmissions,
		)
	})

	return promhttp.Handler()
}

// CountPass is a nil-safe increment used from the reconciler hot path; the
// collectors are nil when Register was never called (unit tests).
func CountPass(state string) {
	if ReconcilePasses != nil {
		ReconcilePasses.WithLabelValues(state).Inc()
	}
}

func CountRedirect(target string) {
	if ForcedRedirects != nil {
		ForcedRedirects.WithLabelValues(target).Inc()
	}
}

func CountStaleDiscard() {
	if StaleFetchDiscards != nil {
		StaleFetchDiscards.Inc()
	}
}

func CountWizardSubmission(role, result string) {
	if WizardSubmissions != nil {
		WizardSubmissions.WithLabelValues(role, result).Inc()
	}
}
