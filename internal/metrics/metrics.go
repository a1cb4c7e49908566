// Package metrics exposes prometheus counters for the command pipeline and
// the voice session. Counters register on a package registry so tests and
// the serve command share one handler without touching the global default.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	// CommandsTotal counts dispatched commands by resolved intent.
	CommandsTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "voxfolio_commands_total",
		Help: "Commands dispatched, labeled by resolved intent kind.",
	}, []string{"intent"})

	// CompilerFallbacks counts remote compile failures recovered locally.
	CompilerFallbacks = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "voxfolio_compiler_fallback_total",
		Help: "Remote compiler failures that fell back to the local rule path.",
	})

	// NarrationFailures counts narration calls that produced no narration.
	NarrationFailures = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "voxfolio_narration_failures_total",
		Help: "Narration service calls that failed and were omitted.",
	})

	// LoopTicks counts walkthrough steps executed.
	LoopTicks = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "voxfolio_loop_ticks_total",
		Help: "Walkthrough steps executed by the loop scheduler.",
	})

	// VoiceEvents counts data channel events by direction.
	VoiceEvents = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "voxfolio_voice_events_total",
		Help: "Voice data channel events, labeled by direction.",
	}, []string{"direction"})
)

// Handler serves the package registry in prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
