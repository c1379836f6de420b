package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_Deterministic(t *testing.T) {
	c := NewClassifier()
	a := c.Classify("img-123", 3)
	b := c.Classify("img-123", 3)
	assert.Equal(t, a, b)

	other := c.Classify("img-456", 3)
	assert.NotEqual(t, a, other)
}

func TestClassifier_SortedByConfidence(t *testing.T) {
	labels := NewClassifier().Classify("img-123", 5)
	require.Len(t, labels, 5)
	for i := 1; i < len(labels); i++ {
		assert.GreaterOrEqual(t, labels[i-1].Confidence, labels[i].Confidence)
	}
}

func TestQuality_Deterministic(t *testing.T) {
	q := NewQualityAssessor(DefaultThresholds)
	assert.Equal(t, q.Assess("img-1"), q.Assess("img-1"))
}

func TestQuality_ThresholdsHonored(t *testing.T) {
	// Con thresholds imposibles, toda imagen falla.
	strict := NewQualityAssessor(Thresholds{MinSharpness: 1.1, MinExposure: 1.1, MinComposite: 1.1})
	rep := strict.Assess("img-1")
	assert.False(t, rep.Acceptable)
	assert.Contains(t, rep.Issues, "low_sharpness")

	// Con thresholds en cero, toda imagen pasa.
	lax := NewQualityAssessor(Thresholds{})
	assert.True(t, lax.Assess("img-1").Acceptable)
}

func TestModerator_Deterministic(t *testing.T) {
	m := NewModerator(DefaultThresholds)
	assert.Equal(t, m.Moderate("img-1", "a.jpg"), m.Moderate("img-1", "a.jpg"))
}

func TestModerator_StatusTransitions(t *testing.T) {
	// Reject threshold en 0: todo score la supera → rejected.
	rejectAll := NewModerator(Thresholds{NudityFlag: 0, NudityReject: 0, ExplicitPose: 2})
	res := rejectAll.Moderate("img-1", "")
	assert.Equal(t, StatusRejected, res.ModerationStatus)
	assert.False(t, res.HumanReviewRequired)

	// Flag threshold en 0 pero reject inalcanzable → flagged + revisión humana.
	flagAll := NewModerator(Thresholds{NudityFlag: 0, NudityReject: 2, ExplicitPose: 2})
	res = flagAll.Moderate("img-1", "")
	assert.Equal(t, StatusFlagged, res.ModerationStatus)
	assert.True(t, res.HumanReviewRequired)
	assert.NotEmpty(t, res.PolicyViolations)

	// Thresholds inalcanzables → approved.
	approveAll := NewModerator(Thresholds{NudityFlag: 2, NudityReject: 2, ExplicitPose: 2})
	res = approveAll.Moderate("img-1", "")
	assert.Equal(t, StatusApproved, res.ModerationStatus)
	assert.Empty(t, res.PolicyViolations)
}

func TestAssistant_KeywordRouting(t *testing.T) {
	a := NewAssistant()
	assert.Contains(t, a.Reply("como cambio mis tarifas?"), "Rates")
	assert.Contains(t, a.Reply("quiero subir una foto"), "Gallery")
	assert.Equal(t, fallbackReply, a.Reply("xyzzy"))
}

func TestBottleneckDetector(t *testing.T) {
	d := NewBottleneckDetector()

	assert.Empty(t, d.Detect(MetricsSnapshot{P95LatencyMS: 100, ErrorRate: 0.001, DBPoolInUse: 1, DBPoolMax: 8}))

	out := d.Detect(MetricsSnapshot{P95LatencyMS: 2500, ErrorRate: 0.2, DBPoolInUse: 8, DBPoolMax: 8})
	require.Len(t, out, 3)
	for _, b := range out {
		if b.Metric != "pool_usage" {
			assert.Equal(t, "critical", b.Severity)
		}
	}
}
