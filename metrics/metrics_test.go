package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountInvocation(t *testing.T) {
	base := testutil.ToFloat64(invocations.WithLabelValues("metrics_test", "done"))

	CountInvocation("metrics_test", "done")
	CountInvocation("metrics_test", "done")
	CountInvocation("metrics_test", "failed")

	assert.Equal(t, base+2, testutil.ToFloat64(invocations.WithLabelValues("metrics_test", "done")))
	assert.Equal(t, float64(1), testutil.ToFloat64(invocations.WithLabelValues("metrics_test", "failed")))
}

func TestObservePhase(t *testing.T) {
	before := testutil.CollectAndCount(phaseDuration)

	ObservePhase("metrics_test_phase", "checking", 15*time.Millisecond)

	assert.Equal(t, before+1, testutil.CollectAndCount(phaseDuration))
}

func TestCountResolution(t *testing.T) {
	CountResolution("metrics_test", true)
	CountResolution("metrics_test", false)
	CountResolution("metrics_test", false)

	assert.Equal(t, float64(1), testutil.ToFloat64(requestsResolved.WithLabelValues("metrics_test", "accepted")))
	assert.Equal(t, float64(2), testutil.ToFloat64(requestsResolved.WithLabelValues("metrics_test", "declined")))
}
