package generator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/datagen/internal/models"
	"github.com/eventhub/datagen/internal/sink"
)

func TestUsers_GeneratesValidSubscriptions(t *testing.T) {
	deps, s := newDeps(t)

	appended, err := Users{}.GenerateBatch(context.Background(), 50, deps)
	require.NoError(t, err)
	assert.Equal(t, 50, appended)

	users, err := sink.ReadAs[models.User](s, models.EntityUsers)
	require.NoError(t, err)
	require.Len(t, users, 50)

	now := time.Now()
	for _, u := range users {
		switch u.SubscriptionStatus {
		case models.SubscriptionCancelled, models.SubscriptionPaused:
			require.NotNil(t, u.SubscriptionEndedAt, "user %s", u.UserID)
			assert.False(t, u.SubscriptionEndedAt.Before(u.SubscriptionStartedAt), "user %s", u.UserID)
			assert.False(t, u.SubscriptionEndedAt.After(now), "user %s", u.UserID)
		default:
			assert.Nil(t, u.SubscriptionEndedAt, "user %s", u.UserID)
		}
		assert.False(t, u.CreatedAt.After(now), "user %s", u.UserID)
		assert.False(t, u.SubscriptionStartedAt.After(now), "user %s", u.UserID)
		assert.Equal(t, u.SubscriptionTier.MonthlyQuota(), u.MonthlyQuota, "user %s", u.UserID)
	}
}

func TestUsers_EmailsUniqueEvenWhenProducerRepeats(t *testing.T) {
	deps, s := newDeps(t)
	deps.Producer = shortProducer{}

	appended, err := Users{}.GenerateBatch(context.Background(), 10, deps)
	require.NoError(t, err)
	assert.Equal(t, 10, appended)

	users, err := sink.ReadAs[models.User](s, models.EntityUsers)
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, u := range users {
		assert.False(t, seen[u.Email], "duplicate email %s", u.Email)
		seen[u.Email] = true
	}
}

func TestUsers_ProducerFailureDegradesToFallbacks(t *testing.T) {
	deps, s := newDeps(t)
	deps.Producer = failingProducer{}

	appended, err := Users{}.GenerateBatch(context.Background(), 5, deps)
	require.NoError(t, err)
	assert.Equal(t, 5, appended)

	users, err := sink.ReadAs[models.User](s, models.EntityUsers)
	require.NoError(t, err)
	for _, u := range users {
		assert.NotEmpty(t, u.FullName)
		assert.NotEmpty(t, u.Email)
	}
}

func TestVenues_CapacityWithinCategoryRange(t *testing.T) {
	deps, s := newDeps(t)

	appended, err := Venues{}.GenerateBatch(context.Background(), 30, deps)
	require.NoError(t, err)
	assert.Equal(t, 30, appended)

	venues, err := sink.ReadAs[models.Venue](s, models.EntityVenues)
	require.NoError(t, err)
	for _, v := range venues {
		r, ok := capacityRanges[v.Category]
		require.True(t, ok, "venue %s has unknown category %s", v.VenueID, v.Category)
		assert.GreaterOrEqual(t, v.Capacity, r.min, "venue %s", v.VenueID)
		assert.LessOrEqual(t, v.Capacity, r.max, "venue %s", v.VenueID)
		assert.NotEmpty(t, v.City)
		assert.NotEmpty(t, v.Neighborhood)
	}
}
