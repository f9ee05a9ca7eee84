package notify_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/totalsbot/internal/adapters/notify"
	"github.com/alejandrodnm/totalsbot/internal/backtest"
	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ts = time.Date(2025, 3, 14, 1, 30, 0, 0, time.UTC)

func firedUnder() (domain.DecisionOutput, domain.Attribution) {
	dec := domain.DecisionOutput{
		GameID:      "0022400123",
		Timestamp:   ts,
		Side:        domain.SideUnder,
		Status:      domain.StatusFired,
		Fired:       true,
		EdgeZ:       -2.3,
		Threshold:   1.5,
		FairValue:   211.4,
		MarketTotal: 221.5,
		Reasons:     []domain.ReasonCode{domain.ReasonEdgeStrong, domain.ReasonLuckHot},
	}
	attr := domain.Attribution{
		Impacts: []domain.Impact{
			{Driver: domain.DriverLuck, Points: -4.2},
			{Driver: domain.DriverFoul, Points: 0.8},
		},
		TopDriver: domain.DriverLuck,
		TopPoints: -4.2,
	}
	return dec, attr
}

func TestConsole_NotifyDecision_Compact(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	dec, attr := firedUnder()
	require.NoError(t, n.NotifyDecision(context.Background(), dec, attr))

	out := buf.String()
	assert.Contains(t, out, "0022400123 UNDER")
	assert.Contains(t, out, "fair=211.4")
	assert.Contains(t, out, "z=-2.30")
	assert.Contains(t, out, "driver=LUCK")
	assert.Contains(t, out, "EDGE_STRONG,LUCK_HOT_REVERSION")
}

func TestConsole_NotifyDecision_Table(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	dec, attr := firedUnder()
	require.NoError(t, n.NotifyDecision(context.Background(), dec, attr))

	out := buf.String()
	assert.Contains(t, out, "FIRED")
	assert.Contains(t, out, "FOUL_EV")
	assert.Contains(t, out, "-4.20")
}

func TestConsole_NotifySanity(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	res := domain.SanityResult{
		ShouldFreeze: true,
		FreezeUntil:  ts.Add(time.Minute),
		Errors:       []string{"total score decreased"},
		Warnings:     []string{"score/box mismatch"},
	}
	require.NoError(t, n.NotifySanity(context.Background(), "g1", res))

	out := buf.String()
	assert.Contains(t, out, "g1 frozen until 01:31:00")
	assert.Contains(t, out, "total score decreased")
	assert.Contains(t, out, "score/box mismatch")
}

func TestConsole_NotifySanity_CleanIsSilent(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, false)

	require.NoError(t, n.NotifySanity(context.Background(), "g1", domain.SanityResult{Valid: true}))
	assert.Empty(t, buf.String())
}

func TestConsole_PrintBacktest(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	r := backtest.Report{
		GameID:   "g1",
		Ticks:    3,
		Compared: 3,
		Fired:    1,
		Timeline: []backtest.TimelineEntry{
			{Timestamp: ts, FairValue: 220, Side: domain.SidePass, Status: domain.StatusNoEdge},
			{Timestamp: ts.Add(time.Minute), FairValue: 210, Side: domain.SideUnder, Status: domain.StatusFired, Fired: true},
			{Timestamp: ts.Add(2 * time.Minute), FairValue: 211, Side: domain.SideUnder, Status: domain.StatusCooldown},
		},
		Mismatches: []backtest.Mismatch{
			{TickIndex: 1, Field: "fair_value", Expected: 210, Actual: 210.5, Delta: 0.5},
		},
	}

	n.PrintBacktest(r, 10)

	out := buf.String()
	assert.Contains(t, out, "MISMATCH (1 fields)")
	assert.Contains(t, out, "fair_value")
	// tick 1 no cae en el muestreo pero disparó; tick 2 es el último
	assert.Contains(t, out, "FIRED")
	assert.Contains(t, out, "COOLDOWN")
}

func TestConsole_PrintSnapshot(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewConsoleWriter(&buf, true)

	n.PrintSnapshot(domain.ControlTableOutput{GameID: "g1", Timestamp: ts, FairValue: 215.5})

	out := buf.String()
	assert.Contains(t, out, "CONTROL TABLE g1")
	assert.Contains(t, out, "215.5000")
}
