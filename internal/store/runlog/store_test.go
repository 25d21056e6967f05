package runlog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(trace, symbol string, score int) *RunModel {
	return &RunModel{
		TraceID:           trace,
		Symbol:            symbol,
		Score:             score,
		Label:             "Greed",
		InternalComposite: 83.57,
		ExternalComposite: 77.625,
		ConfidenceScore:   90,
		ConfidenceLevel:   "High",
		Strategy:          "OVERBOUGHT_DISTRIBUTION",
		PositionSize:      38.5,
		SubScoresJSON:     datatypes.JSON(`[{"name":"price","value":85}]`),
		PlanJSON:          datatypes.JSON(`{"strategyType":"OVERBOUGHT_DISTRIBUTION"}`),
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	rec := sampleRun("trace-1", "BTCUSDT", 81)
	require.NoError(t, s.SaveRun(ctx, rec))
	assert.NotZero(t, rec.CreatedAtUnix)

	got, err := s.GetRun(ctx, "trace-1")
	require.NoError(t, err)
	assert.Equal(t, 81, got.Score)
	assert.Equal(t, "BTCUSDT", got.Symbol)
	assert.Equal(t, "OVERBOUGHT_DISTRIBUTION", got.Strategy)
	assert.JSONEq(t, `[{"name":"price","value":85}]`, string(got.SubScoresJSON))
}

func TestGetRunNotFound(t *testing.T) {
	s := openStore(t)
	_, err := s.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSaveRunRequiresTraceID(t *testing.T) {
	s := openStore(t)
	err := s.SaveRun(context.Background(), &RunModel{Symbol: "BTCUSDT"})
	require.Error(t, err)
}

func TestListRunsFilterAndOrder(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	older := sampleRun("trace-a", "BTCUSDT", 30)
	older.CreatedAtUnix = 100
	newer := sampleRun("trace-b", "BTCUSDT", 70)
	newer.CreatedAtUnix = 200
	other := sampleRun("trace-c", "ETHUSDT", 50)
	other.CreatedAtUnix = 150
	require.NoError(t, s.SaveRun(ctx, older))
	require.NoError(t, s.SaveRun(ctx, newer))
	require.NoError(t, s.SaveRun(ctx, other))

	all, err := s.ListRuns(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "trace-b", all[0].TraceID)

	btc, err := s.ListRuns(ctx, "btcusdt", 10)
	require.NoError(t, err)
	require.Len(t, btc, 2)
	for _, r := range btc {
		assert.Equal(t, "BTCUSDT", r.Symbol)
	}

	limited, err := s.ListRuns(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDuplicateTraceIDRejected(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveRun(ctx, sampleRun("trace-dup", "BTCUSDT", 50)))
	err := s.SaveRun(ctx, sampleRun("trace-dup", "BTCUSDT", 51))
	require.Error(t, err)
}
