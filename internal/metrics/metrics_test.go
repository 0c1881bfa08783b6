package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterPendingSessions(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	pending := 3
	require.NoError(t, RegisterPendingSessions(reg, func() int { return pending }))

	expected := `
# HELP botkit_session_pending_channels Channels with at least one pending interactive prompt.
# TYPE botkit_session_pending_channels gauge
botkit_session_pending_channels 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "botkit_session_pending_channels"))

	err := RegisterPendingSessions(reg, func() int { return 0 })
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}

func TestSchedulerTicksCounter(t *testing.T) {
	before := testutil.ToFloat64(SchedulerTicks.WithLabelValues("metrics_test", ResultSuccess))
	SchedulerTicks.WithLabelValues("metrics_test", ResultSuccess).Inc()
	assert.InDelta(t, before+1, testutil.ToFloat64(SchedulerTicks.WithLabelValues("metrics_test", ResultSuccess)), 0.001)
}
