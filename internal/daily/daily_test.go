package daily

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/santiago-ondris/wheels-house-sub002/internal/words"
)

func testBank(t *testing.T) *words.Bank {
	t.Helper()
	b, err := words.NewBank([]string{"MOTOR", "PISTON", "RALLY"})
	require.NoError(t, err)
	return b
}

func fixedClock(ts time.Time) func() time.Time { return func() time.Time { return ts } }

func TestGameNumber_StartsAtOne(t *testing.T) {
	s, err := NewSelector(testBank(t), Options{})
	require.NoError(t, err)

	n, err := s.GameNumber(DefaultEpoch)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.GameNumber(DefaultEpoch.Add(23*time.Hour + 59*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.GameNumber(DefaultEpoch.AddDate(0, 0, 41))
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestGameNumber_UsesUTCDay(t *testing.T) {
	s, err := NewSelector(testBank(t), Options{})
	require.NoError(t, err)

	// 23:30 in Buenos Aires (UTC-3) on Jan 1 is already Jan 2 in UTC.
	art := time.FixedZone("ART", -3*60*60)
	n, err := s.GameNumber(time.Date(2025, 1, 1, 23, 30, 0, 0, art))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestToday_IsDeterministic(t *testing.T) {
	now := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	s, err := NewSelector(testBank(t), Options{Now: fixedClock(now)})
	require.NoError(t, err)

	first, err := s.Today()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := s.Today()
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	// a second selector over the same bank agrees (restart)
	s2, err := NewSelector(testBank(t), Options{Now: fixedClock(now.Add(2 * time.Hour))})
	require.NoError(t, err)
	other, err := s2.Today()
	require.NoError(t, err)
	assert.Equal(t, first, other)
	assert.Equal(t, "2025-03-10", first.Date)
}

func TestWord_SequentialCyclesThroughBank(t *testing.T) {
	s, err := NewSelector(testBank(t), Options{})
	require.NoError(t, err)

	want := []string{"MOTOR", "PISTON", "RALLY", "MOTOR", "PISTON"}
	for i, w := range want {
		e, err := s.Word(i + 1)
		require.NoError(t, err)
		assert.Equal(t, w, e.Word, "game %d", i+1)
	}

	g, err := s.GameFor(DefaultEpoch.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, Game{Number: 2, WordLength: 6, Date: "2025-01-02"}, g)
}

func TestWord_HMACIsStable(t *testing.T) {
	s, err := NewSelector(testBank(t), Options{Strategy: StrategyHMAC, Salt: "pepper"})
	require.NoError(t, err)

	a, err := s.Word(77)
	require.NoError(t, err)
	b, err := s.Word(77)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	idx := WordIndex(s.DateOf(77), "pepper", 3)
	e, _ := testBank(t).At(idx)
	assert.Equal(t, e, a)
}

func TestWordIndex_EmptyBank(t *testing.T) {
	assert.Equal(t, -1, WordIndex(DefaultEpoch, "salt", 0))
}

func TestConfigurationErrors(t *testing.T) {
	_, err := NewSelector(nil, Options{})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewSelector(testBank(t), Options{Strategy: StrategyHMAC})
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewSelector(testBank(t), Options{Strategy: "random"})
	assert.ErrorIs(t, err, ErrConfiguration)

	s, err := NewSelector(testBank(t), Options{Now: fixedClock(DefaultEpoch.AddDate(0, 0, -1))})
	require.NoError(t, err)
	_, err = s.Today()
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Reason, "before epoch")

	_, err = s.Word(0)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestCustomEpoch(t *testing.T) {
	epoch := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	s, err := NewSelector(testBank(t), Options{Epoch: epoch, Now: fixedClock(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC))})
	require.NoError(t, err)

	g, err := s.Today()
	require.NoError(t, err)
	assert.Equal(t, 19, g.Number)
	assert.Equal(t, "2026-10-19", g.Date)
}
