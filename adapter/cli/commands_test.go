package cli

import (
	"bytes"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/felixgeelhaar/doable/pkg/observability"
)

func TestCurrentBuildInfo(t *testing.T) {
	info := CurrentBuildInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, []string{"status", "time_tracking", "workload", "progress"}, info.Reports)
}

func TestWriteHealth(t *testing.T) {
	health := observability.OverallHealth{
		Status:    observability.HealthStatusDegraded,
		Timestamp: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Checks: map[string]observability.HealthCheckResult{
			"cache":    {Status: observability.HealthStatusDegraded, Message: "connection refused"},
			"database": {Status: observability.HealthStatusHealthy},
		},
	}

	var buf bytes.Buffer
	writeHealth(&buf, health, []string{"cache", "database"})

	assert.Equal(t,
		"degraded\n"+
			"  cache      degraded (connection refused)\n"+
			"  database   healthy\n",
		buf.String())
}
