// Package metrics collects Prometheus metrics for the composition service.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// AI request sources.
const (
	SourceProvider = "provider"
	SourceMock     = "mock"
	SourceFallback = "fallback"
)

// MetricsCollector is what services record into.
type MetricsCollector interface {
	RecordAIRequest(operation, source string)
	RecordDispatch(platform string, opened bool)
	RecordStageTransition(from, to int)
	RecordPostCreated(status string)
	RecordPlatformConnected(platform string)
}

// Collector is the Prometheus implementation.
type Collector struct {
	aiRequests       *prometheus.CounterVec
	dispatches       *prometheus.CounterVec
	stageTransitions *prometheus.CounterVec
	postsCreated     *prometheus.CounterVec
	connects         *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		aiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vizora_ai_requests_total",
			Help: "AI assistant requests by operation and answer source.",
		}, []string{"operation", "source"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vizora_publish_dispatch_total",
			Help: "Publish hand-offs per platform.",
		}, []string{"platform", "result"}),
		stageTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vizora_workflow_transitions_total",
			Help: "Composition workflow stage transitions.",
		}, []string{"from", "to"}),
		postsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vizora_posts_created_total",
			Help: "Posts created by initial status.",
		}, []string{"status"}),
		connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vizora_platform_connects_total",
			Help: "Completed simulated platform connections.",
		}, []string{"platform"}),
	}

	reg.MustRegister(c.aiRequests, c.dispatches, c.stageTransitions, c.postsCreated, c.connects)
	return c
}

func (c *Collector) RecordAIRequest(operation, source string) {
	c.aiRequests.WithLabelValues(operation, source).Inc()
}

func (c *Collector) RecordDispatch(platform string, opened bool) {
	result := "opened"
	if !opened {
		result = "failed"
	}
	c.dispatches.WithLabelValues(platform, result).Inc()
}

func (c *Collector) RecordStageTransition(from, to int) {
	c.stageTransitions.WithLabelValues(strconv.Itoa(from), strconv.Itoa(to)).Inc()
}

func (c *Collector) RecordPostCreated(status string) {
	c.postsCreated.WithLabelValues(status).Inc()
}

func (c *Collector) RecordPlatformConnected(platform string) {
	c.connects.WithLabelValues(platform).Inc()
}

// Nop discards everything. Used where metrics are not wired, mostly tests.
type Nop struct{}

func (Nop) RecordAIRequest(string, string) {}
func (Nop) RecordDispatch(string, bool) {}
func (Nop) RecordStageTransition(int, int) {}
func (Nop) RecordPostCreated(string) {}
func (Nop) RecordPlatformConnected(string) {}
