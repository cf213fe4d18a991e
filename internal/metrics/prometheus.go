package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder exposes counters via a prometheus registry.
type PrometheusRecorder struct {
	usersRegistered prometheus.Counter
	logins          *prometheus.CounterVec
	loginsThrottled prometheus.Counter
	sessionLookups  *prometheus.CounterVec
	notesCreated    prometheus.Counter
	notesDeleted    prometheus.Counter
}

// NewPrometheus registers counters on the given registerer and returns the
// recorder. Pass prometheus.DefaultRegisterer in production.
func NewPrometheus(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		usersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "jotter_users_registered_total",
			Help: "Number of successful registrations.",
		}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jotter_logins_total",
			Help: "Number of login attempts by status.",
		}, []string{"status"}),
		loginsThrottled: factory.NewCounter(prometheus.CounterOpts{
			Name: "jotter_logins_throttled_total",
			Help: "Number of login attempts rejected by the throttle.",
		}),
		sessionLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jotter_session_lookups_total",
			Help: "Number of bearer-token session lookups by outcome.",
		}, []string{"status"}),
		notesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "jotter_notes_created_total",
			Help: "Number of notes created.",
		}),
		notesDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "jotter_notes_deleted_total",
			Help: "Number of notes deleted.",
		}),
	}
}

// IncUserRegistered increments the registration counter.
func (p *PrometheusRecorder) IncUserRegistered() {
	p.usersRegistered.Inc()
}

// IncLogin increments the login counter for the given status.
func (p *PrometheusRecorder) IncLogin(status string) {
	if status != "success" {
		status = "failure"
	}
	p.logins.WithLabelValues(status).Inc()
}

// IncLoginThrottled increments the throttle counter.
func (p *PrometheusRecorder) IncLoginThrottled() {
	p.loginsThrottled.Inc()
}

// IncSessionLookup increments the session lookup counter for the status.
func (p *PrometheusRecorder) IncSessionLookup(status string) {
	if status != "hit" {
		status = "miss"
	}
	p.sessionLookups.WithLabelValues(status).Inc()
}

// IncNoteCreated increments the note created counter.
func (p *PrometheusRecorder) IncNoteCreated() {
	p.notesCreated.Inc()
}

// IncNoteDeleted increments the note deleted counter.
func (p *PrometheusRecorder) IncNoteDeleted() {
	p.notesDeleted.Inc()
}
