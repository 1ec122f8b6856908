package haccp

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func testCCP(t *testing.T) *CCP {
	t.Helper()
	c, err := NewCCP(CCPDefinition{
		Code:   "ccp-1b",
		Name:   "Cooking core temperature",
		Type:   CCPTypeTemperature,
		Limits: CriticalLimits{Min: dec("75"), Max: dec("95")},
	})
	require.NoError(t, err)
	return c
}

func record(t *testing.T, c *CCP, value string, at time.Time) *CCPLog {
	t.Helper()
	l, err := NewCCPLog(c, Measurement{MeasuredValue: decimal.RequireFromString(value), Unit: "C", MeasuredAt: at}, at.Add(time.Second))
	require.NoError(t, err)
	return l
}

func TestNewCCP(t *testing.T) {
	c := testCCP(t)
	assert.Equal(t, "CCP-1B", c.Code)
	assert.True(t, c.IsActive)

	_, err := NewCCP(CCPDefinition{Code: "X", Name: "x", Type: CCPTypePH, Limits: CriticalLimits{Min: dec("7"), Max: dec("4")}})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = NewCCP(CCPDefinition{Code: "X", Name: "x", Type: CCPType("humidity")})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = NewCCP(CCPDefinition{Code: "X", Name: "x", Type: CCPTypeVisual})
	assert.NoError(t, err, "open limits are allowed")
}

func TestCriticalLimits(t *testing.T) {
	l := CriticalLimits{Min: dec("75"), Max: dec("95")}
	assert.True(t, l.Contains(decimal.NewFromInt(75)))
	assert.True(t, l.Contains(decimal.NewFromInt(95)))
	assert.False(t, l.Contains(decimal.NewFromInt(74)))
	assert.False(t, l.Contains(decimal.NewFromInt(96)))

	assert.True(t, l.Deviation(decimal.NewFromInt(60)).Equal(decimal.NewFromInt(-20)))
	assert.True(t, l.Deviation(decimal.RequireFromString("104.5")).Equal(decimal.NewFromInt(10)))
	assert.True(t, l.Deviation(decimal.NewFromInt(80)).IsZero())

	onlyMax := CriticalLimits{Max: dec("4")}
	assert.True(t, onlyMax.Contains(decimal.NewFromInt(-10)))
}

func TestNewCCPLog_Status(t *testing.T) {
	c := testCCP(t)
	now := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

	ok := record(t, c, "82", now)
	assert.Equal(t, LogStatusWithinLimits, ok.Status)
	assert.True(t, ok.IsWithinLimits)
	assert.Len(t, ok.GetDomainEvents(), 1)

	bad := record(t, c, "70", now)
	assert.Equal(t, LogStatusOutOfLimits, bad.Status)
	assert.False(t, bad.IsWithinLimits)
	require.Len(t, bad.GetDomainEvents(), 2)
	assert.Equal(t, EventTypeCriticalLimitViolated, bad.GetDomainEvents()[1].EventType())
}

func TestNewCCPLog_Rejections(t *testing.T) {
	c := testCCP(t)
	now := time.Now()

	_, err := NewCCPLog(c, Measurement{MeasuredValue: decimal.NewFromInt(80), Unit: "C", MeasuredAt: now.Add(time.Hour)}, now)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput), "future measurement")

	_, err = NewCCPLog(c, Measurement{MeasuredValue: decimal.NewFromInt(80), MeasuredAt: now}, now)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput), "missing unit")

	c.Deactivate()
	_, err = NewCCPLog(c, Measurement{MeasuredValue: decimal.NewFromInt(80), Unit: "C", MeasuredAt: now}, now)
	assert.True(t, errors.Is(err, shared.ErrInvalidState), "inactive ccp")
}

func TestCCPLog_CorrectiveActionAndVerify(t *testing.T) {
	c := testCCP(t)
	now := time.Now()
	ok := record(t, c, "80", now)
	assert.True(t, errors.Is(ok.RecordCorrectiveAction("re-cook", nil), shared.ErrInvalidState))
	assert.False(t, ok.IsOpenDeviation())

	bad := record(t, c, "60", now)
	assert.True(t, bad.IsOpenDeviation())
	assert.True(t, errors.Is(bad.Verify(nil), shared.ErrInvalidState))
	assert.True(t, errors.Is(bad.RecordCorrectiveAction(" ", nil), shared.ErrInvalidInput))

	require.NoError(t, bad.RecordCorrectiveAction("re-cooked batch", nil))
	assert.Equal(t, LogStatusCorrectiveAction, bad.Status)
	assert.True(t, bad.IsOpenDeviation())
	assert.True(t, errors.Is(bad.RecordCorrectiveAction("again", nil), shared.ErrInvalidState))

	verifier := uuid.New()
	require.NoError(t, bad.Verify(&verifier))
	assert.True(t, bad.IsVerified())
	assert.False(t, bad.IsOpenDeviation())
	assert.True(t, errors.Is(bad.Verify(&verifier), shared.ErrInvalidState))
}

func TestCCPLog_CollidesWith(t *testing.T) {
	c := testCCP(t)
	at := time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
	l := record(t, c, "80", at)

	assert.True(t, l.CollidesWith(c.ID, at.Add(30*time.Second)))
	assert.True(t, l.CollidesWith(c.ID, at.Add(-time.Minute)))
	assert.False(t, l.CollidesWith(c.ID, at.Add(61*time.Second)))
	assert.False(t, l.CollidesWith(uuid.New(), at))
}

func TestBuildAlerts(t *testing.T) {
	c := testCCP(t)
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	recent := []CCPLog{
		*record(t, c, "60", now.Add(-1*time.Hour)),
		*record(t, c, "61", now.Add(-2*time.Hour)),
		*record(t, c, "62", now.Add(-3*time.Hour)),
		*record(t, c, "80", now.Add(-4*time.Hour)),
	}
	stale := record(t, c, "50", now.Add(-100*time.Hour))
	require.NoError(t, stale.RecordCorrectiveAction("discarded", nil))
	fresh := record(t, c, "50", now.Add(-10*time.Hour))
	require.NoError(t, fresh.RecordCorrectiveAction("discarded", nil))

	alerts := BuildAlerts(recent, []CCPLog{*stale, *fresh}, 24, now)

	kinds := map[AlertKind]int{}
	for _, a := range alerts {
		kinds[a.Kind]++
	}
	assert.Equal(t, 3, kinds[AlertRecentViolation])
	assert.Equal(t, 1, kinds[AlertUnverifiedAction])
	assert.Equal(t, 1, kinds[AlertRepeatedViolations])
	for i := 1; i < len(alerts); i++ {
		assert.False(t, alerts[i].OccurredAt.After(alerts[i-1].OccurredAt), "newest first")
	}

	assert.Empty(t, BuildAlerts(nil, nil, 0, now))
}
