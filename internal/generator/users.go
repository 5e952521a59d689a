package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eventhub/datagen/internal/models"
	"github.com/eventhub/datagen/internal/sink"
)

// Users generates subscription customers. Independent: no upstream input.
type Users struct{}

func (Users) EntityType() models.EntityType     { return models.EntityUsers }
func (Users) Dependencies() []models.EntityType { return nil }

func (g Users) GenerateBatch(ctx context.Context, count int, deps *Deps) (int, error) {
	sets := fetchFieldSets(ctx, deps, models.EntityUsers, count, nil)

	// Emails must stay unique across resumed runs, so seed the seen set from
	// existing sink contents.
	existing, err := sink.ReadAs[models.User](deps.Sink, models.EntityUsers)
	if err != nil {
		return 0, fmt.Errorf("load existing users: %w", err)
	}
	seenEmails := make(map[string]struct{}, len(existing))
	for _, u := range existing {
		seenEmails[u.Email] = struct{}{}
	}

	now := time.Now()
	appended := 0
	for _, fs := range sets {
		id := deps.Alloc.NextID(models.EntityUsers)
		area := bayAreaCities[deps.Rand.Intn(len(bayAreaCities))]
		tier := pickWeighted(deps.Rand, tierMix)

		createdAt := now.AddDate(0, 0, -deps.Rand.Intn(3*365))
		startedAt := createdAt.AddDate(0, 0, deps.Rand.Intn(30))

		u := models.User{
			UserID:                id,
			FullName:              field(fs, "full_name", "Placeholder User"),
			Email:                 dedupeEmail(field(fs, "email", id+"@example.com"), id, seenEmails),
			City:                  area.city,
			IsBlocked:             deps.Rand.Intn(100) < 5,
			CreatedAt:             createdAt,
			SubscriptionTier:      tier,
			SubscriptionStatus:    pickWeighted(deps.Rand, subscriptionStatusMix),
			MonthlyQuota:          tier.MonthlyQuota(),
			SubscriptionStartedAt: startedAt,
		}
		if u.SubscriptionStatus != models.SubscriptionActive {
			ended := startedAt.AddDate(0, 0, 7+deps.Rand.Intn(300))
			u.SubscriptionEndedAt = &ended
		}

		u = deps.Tracker.ValidateUser(u)
		if err := deps.Sink.Append(models.EntityUsers, u); err != nil {
			return appended, fmt.Errorf("append user %s: %w", u.UserID, err)
		}
		deps.Tracker.AddUser(u)
		seenEmails[u.Email] = struct{}{}
		appended++
	}
	return appended, nil
}

// dedupeEmail splices the user id into the local part when the address has
// already been used, the same repair the dataset applies to duplicate emails.
func dedupeEmail(email, userID string, seen map[string]struct{}) string {
	if _, dup := seen[email]; !dup {
		return email
	}
	if local, domain, ok := strings.Cut(email, "@"); ok {
		return fmt.Sprintf("%s_%s@%s", local, userID, domain)
	}
	return fmt.Sprintf("%s_%s", email, userID)
}
