package aggregate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	hours  map[string][]float64
	totals map[string]float64
	sumErr error
	setErr error
	summed []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{hours: map[string][]float64{}, totals: map[string]float64{}}
}

func (s *fakeStore) SumHours(_ context.Context, id string) (float64, error) {
	if s.sumErr != nil {
		return 0, s.sumErr
	}
	s.summed = append(s.summed, id)
	var total float64
	for _, h := range s.hours[id] {
		total += h
	}
	return total, nil
}

func (s *fakeStore) SetTotalHours(_ context.Context, id string, total float64) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.totals[id] = total
	return nil
}

func TestRecompute(t *testing.T) {
	store := newFakeStore()
	store.totals["ts"] = 99
	engine := NewEngine(store)

	total, err := engine.Recompute(context.Background(), "ts")
	require.NoError(t, err)
	assert.Equal(t, 0.0, total, "no timelogs means zero")
	assert.Equal(t, 0.0, store.totals["ts"])

	store.hours["ts"] = []float64{3.5, 4.0}
	total, err = engine.Recompute(context.Background(), "ts")
	require.NoError(t, err)
	assert.Equal(t, 7.5, total)

	// Idempotent.
	total, err = engine.Recompute(context.Background(), "ts")
	require.NoError(t, err)
	assert.Equal(t, 7.5, total)
}

func TestRecompute_RoundsFloatNoise(t *testing.T) {
	store := newFakeStore()
	store.hours["ts"] = []float64{0.1, 0.2}

	total, err := NewEngine(store).Recompute(context.Background(), "ts")
	require.NoError(t, err)
	assert.Equal(t, 0.3, total)
}

func TestRecompute_PropagatesErrors(t *testing.T) {
	boom := errors.New("boom")

	store := newFakeStore()
	store.sumErr = boom
	_, err := NewEngine(store).Recompute(context.Background(), "ts")
	assert.ErrorIs(t, err, boom)

	store = newFakeStore()
	store.setErr = boom
	_, err = NewEngine(store).Recompute(context.Background(), "ts")
	assert.ErrorIs(t, err, boom)
}

func TestRecomputeAll_DedupesAndOrders(t *testing.T) {
	store := newFakeStore()
	store.hours["b"] = []float64{1}
	store.hours["a"] = []float64{2}

	err := NewEngine(store).RecomputeAll(context.Background(), []string{"b", "a", "b", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, store.summed)
	assert.Equal(t, 1.0, store.totals["b"])
	assert.Equal(t, 2.0, store.totals["a"])
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 7.5, RoundHours(7.4999999))
	assert.Equal(t, 1.23, RoundHours(1.234))
	assert.Equal(t, 0.0, RoundHours(0))
}
