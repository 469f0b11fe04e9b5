package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		raw      string
		kind     Kind
		source   string
		duration time.Duration
	}{
		{name: "cron", raw: "*/5 * * * *", kind: KindCron, source: "cron"},
		{name: "cron with seconds", raw: "*/10 * * * * *", kind: KindCron, source: "cron"},
		{name: "prefixed cron", raw: "cron:0 0 * * *", kind: KindCron, source: "cron"},
		{name: "descriptor", raw: "@hourly", kind: KindCron, source: "cron"},
		{name: "every descriptor", raw: "@every 30s", kind: KindCron, source: "cron"},
		{name: "duration", raw: "10m", kind: KindInterval, source: "duration", duration: 10 * time.Minute},
		{name: "prefixed interval", raw: "interval:45s", kind: KindInterval, source: "duration", duration: 45 * time.Second},
		{name: "prefixed every", raw: "every:00:05", kind: KindInterval, source: "hhmm", duration: 5 * time.Minute},
		{name: "hhmm", raw: "01:30", kind: KindInterval, source: "hhmm", duration: 90 * time.Minute},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.raw)
			require.NoError(t, err, "Parse(%q)", tt.raw)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.source, got.Source)
			if tt.kind == KindInterval {
				assert.Equal(t, tt.duration, got.Every)
			}
			sched, err := got.Schedule()
			require.NoError(t, err)
			assert.NotNil(t, sched)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "not-a-schedule", "cron:", "interval:-5s", "00:00", "01:75", "* * *", "cron:61 * * * *"} {
		_, err := Parse(raw)
		assert.Error(t, err, "Parse(%q)", raw)
	}
}

func TestSpecString(t *testing.T) {
	sp, err := Parse("90s")
	require.NoError(t, err)
	assert.Equal(t, "@every 1m30s", sp.String())

	sp, err = Parse("cron:*/5 * * * *")
	require.NoError(t, err)
	assert.Equal(t, "*/5 * * * *", sp.String())
}

func TestNextRunsInterval(t *testing.T) {
	sp, err := Parse("10s")
	require.NoError(t, err)
	sched, err := sp.Schedule()
	require.NoError(t, err)

	from := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{
		"2025-01-01 10:00:10",
		"2025-01-01 10:00:20",
	}, NextRuns(sched, from, 2))
}

func TestNextRunsCron(t *testing.T) {
	sp, err := Parse("0 * * * *")
	require.NoError(t, err)
	sched, err := sp.Schedule()
	require.NoError(t, err)

	from := time.Date(2025, 1, 1, 10, 15, 0, 0, time.UTC)
	assert.Equal(t, []string{"2025-01-01 11:00:00"}, NextRuns(sched, from, 1))
}
