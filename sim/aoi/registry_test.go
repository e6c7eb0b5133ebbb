package aoi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_AdmitGetRemove(t *testing.T) {
	r := NewRegistry(AgeConfig{EpochBaseline: 1}, 1)
	f, err := r.Admit(7)
	require.NoError(t, err)
	assert.Equal(t, uint32(7), f.ID)
	assert.Equal(t, 1.0, f.Age.CurrentAoI())
	assert.Equal(t, uint64(1), f.Reliability.Reliability())

	_, err = r.Admit(7)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	got, ok := r.Get(7)
	require.True(t, ok)
	assert.Same(t, f, got)

	r.Remove(7)
	_, ok = r.Get(7)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_IDsSorted(t *testing.T) {
	r := NewRegistry(AgeConfig{}, 0)
	for _, id := range []uint32{5, 1, 3} {
		_, err := r.Admit(id)
		require.NoError(t, err)
	}
	assert.Equal(t, []uint32{1, 3, 5}, r.IDs())
}

func TestRegistry_Rank_StalerAndLessReliableFirst(t *testing.T) {
	// GIVEN three flows with different histories
	r := NewRegistry(AgeConfig{Unit: SlotCount, SlotDuration: 100}, 0)
	calc, err := NewCalculator(0.5)
	require.NoError(t, err)
	for _, id := range []uint32{1, 2, 3} {
		f, err := r.Admit(id)
		require.NoError(t, err)
		f.Age.SetPacketCreationTime(0)
	}
	f1, _ := r.Get(1)
	f1.Reliability.UpdateReliability(true)
	f1.Reliability.UpdateReliability(true)
	f3, _ := r.Get(3)
	f3.Age.IncrementAoI(10)

	// WHEN ranked at t=1000 (10 slots for everyone)
	scores := r.Rank(1_000, []uint32{1, 2, 3}, calc)

	// THEN flow 3 (stalest) leads, then flow 2 (no successes), then flow 1
	require.Len(t, scores, 3)
	assert.Equal(t, []uint32{3, 2, 1}, []uint32{scores[0].FlowID, scores[1].FlowID, scores[2].FlowID})
	assert.Equal(t, 20.0, scores[0].Age)
	assert.InDelta(t, 0.5*10+0.5*(1.0/3.0), scores[2].Priority, 1e-12)
}

func TestRegistry_Rank_TiesBrokenByFlowID(t *testing.T) {
	r := NewRegistry(AgeConfig{}, 0)
	calc, err := NewCalculator(0.5)
	require.NoError(t, err)
	for _, id := range []uint32{9, 4, 6} {
		_, err := r.Admit(id)
		require.NoError(t, err)
	}
	scores := r.Rank(0, []uint32{9, 4, 6, 100}, calc)
	require.Len(t, scores, 3, "unknown ids are skipped")
	assert.Equal(t, uint32(4), scores[0].FlowID)
	assert.Equal(t, uint32(6), scores[1].FlowID)
	assert.Equal(t, uint32(9), scores[2].FlowID)
}
