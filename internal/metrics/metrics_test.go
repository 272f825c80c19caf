package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorCountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAIRequest("captions", SourceMock)
	c.RecordAIRequest("captions", SourceMock)
	c.RecordAIRequest("captions", SourceFallback)
	c.RecordDispatch("twitter", true)
	c.RecordDispatch("twitter", false)
	c.RecordStageTransition(1, 2)
	c.RecordPostCreated("draft")
	c.RecordPlatformConnected("linkedin")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.aiRequests.WithLabelValues("captions", SourceMock)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.aiRequests.WithLabelValues("captions", SourceFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.dispatches.WithLabelValues("twitter", "opened")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.dispatches.WithLabelValues("twitter", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.stageTransitions.WithLabelValues("1", "2")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.postsCreated.WithLabelValues("draft")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.connects.WithLabelValues("linkedin")))
}

func TestNopSatisfiesCollectorInterface(t *testing.T) {
	var mc MetricsCollector = Nop{}
	mc.RecordAIRequest("chat", SourceProvider)
	mc.RecordDispatch("facebook", true)
}
