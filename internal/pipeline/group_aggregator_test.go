package pipeline

import (
	"context"
	"math"
	"testing"

	"spendwise_backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredMembership(store *fakeStore, roomID string, score float64) *models.ChatRoomMembership {
	return store.addMembership(&models.ChatRoomMembership{
		UserID:     store.id("user"),
		ChatRoomID: roomID,
		UserScore:  decimal.NewNullDecimal(decimal.NewFromFloat(score)),
	})
}

func unscoredMembership(store *fakeStore, roomID string) *models.ChatRoomMembership {
	return store.addMembership(&models.ChatRoomMembership{
		UserID:     store.id("user"),
		ChatRoomID: roomID,
	})
}

func TestGroupScoreFiveMemberScenario(t *testing.T) {
	scores := []float64{90, 80, 70, 60, 50}

	got := GroupScore(scores)

	// ((350/5)*0.8 + 90*0.2) * ln(6) ≈ 132.6
	want := (70*0.8 + 90*0.2) * math.Log(6)
	assert.InDelta(t, want, got, 1e-9)
	assert.InDelta(t, 132.6, got, 0.05)
}

func TestGroupScoreTopDecileWidensWithGroupSize(t *testing.T) {
	scores := []float64{100, 90, 80, 70, 60, 50, 40, 30, 20, 10, 0}

	got := GroupScore(scores)

	mean := 50.0
	topAverage := 95.0 // ceil(11*0.1) = 2 members
	want := (mean*0.8 + topAverage*0.2) * math.Log(12)
	assert.InDelta(t, want, got, 1e-9)
}

func TestAggregatorNullsRoomsBelowMinimumSize(t *testing.T) {
	store := newFakeStore()
	room := store.addRoom(&models.ChatRoom{Title: "Small"})
	for i := 0; i < 4; i++ {
		scoredMembership(store, room.ID, float64(50+i))
	}
	// An unscored member does not count toward the minimum.
	unscoredMembership(store, room.ID)

	stale := 12.5
	room.TotalScore = &stale

	aggregator := NewGroupAggregator(store, 10, 5)
	require.NoError(t, aggregator.Run(context.Background(), testDay()))

	assert.Nil(t, store.roomByID(room.ID).TotalScore)
}

func TestAggregatorPersistsBlendedScore(t *testing.T) {
	store := newFakeStore()
	room := store.addRoom(&models.ChatRoom{Title: "Five strong"})
	for _, score := range []float64{90, 80, 70, 60, 50} {
		scoredMembership(store, room.ID, score)
	}

	aggregator := NewGroupAggregator(store, 10, 5)
	require.NoError(t, aggregator.Run(context.Background(), testDay()))

	got := store.roomByID(room.ID).TotalScore
	require.NotNil(t, got)
	assert.InDelta(t, (70*0.8+90*0.2)*math.Log(6), *got, 1e-6)
}

func TestAggregatorIgnoresUnscoredMembersInBlend(t *testing.T) {
	store := newFakeStore()
	room := store.addRoom(&models.ChatRoom{Title: "Mixed"})
	for _, score := range []float64{90, 80, 70, 60, 50} {
		scoredMembership(store, room.ID, score)
	}
	unscoredMembership(store, room.ID)
	unscoredMembership(store, room.ID)

	aggregator := NewGroupAggregator(store, 10, 5)
	require.NoError(t, aggregator.Run(context.Background(), testDay()))

	got := store.roomByID(room.ID).TotalScore
	require.NotNil(t, got)
	// Only the 5 scored members participate: same result as without the
	// unscored two.
	assert.InDelta(t, (70*0.8+90*0.2)*math.Log(6), *got, 1e-6)
}

func TestAggregatorIsIdempotent(t *testing.T) {
	store := newFakeStore()
	room := store.addRoom(&models.ChatRoom{Title: "Stable"})
	for _, score := range []float64{90, 80, 70, 60, 50} {
		scoredMembership(store, room.ID, score)
	}

	aggregator := NewGroupAggregator(store, 10, 5)
	require.NoError(t, aggregator.Run(context.Background(), testDay()))
	first := *store.roomByID(room.ID).TotalScore

	require.NoError(t, aggregator.Run(context.Background(), testDay()))
	assert.InDelta(t, first, *store.roomByID(room.ID).TotalScore, 1e-9)
}
