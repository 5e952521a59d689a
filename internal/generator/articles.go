package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/eventhub/datagen/internal/models"
)

// Articles generates knowledge base articles. Independent: articles have no
// cross-entity constraints, so nothing is submitted to the tracker.
type Articles struct{}

func (Articles) EntityType() models.EntityType     { return models.EntityKBArticles }
func (Articles) Dependencies() []models.EntityType { return nil }

func (g Articles) GenerateBatch(ctx context.Context, count int, deps *Deps) (int, error) {
	sets := fetchFieldSets(ctx, deps, models.EntityKBArticles, count, nil)

	now := time.Now()
	appended := 0
	for _, fs := range sets {
		id := deps.Alloc.NextID(models.EntityKBArticles)

		a := models.KBArticle{
			ArticleID:    id,
			Title:        field(fs, "title", "Help Article "+id),
			Content:      field(fs, "content", "This article is being written."),
			Category:     articleCategories[deps.Rand.Intn(len(articleCategories))],
			Tags:         field(fs, "tags", "general"),
			LastUpdated:  now.AddDate(0, 0, -deps.Rand.Intn(365)),
			IsPublished:  deps.Rand.Intn(100) < 90,
			ViewCount:    deps.Rand.Intn(5000),
			HelpfulVotes: deps.Rand.Intn(300),
		}

		if err := deps.Sink.Append(models.EntityKBArticles, a); err != nil {
			return appended, fmt.Errorf("append article %s: %w", a.ArticleID, err)
		}
		appended++
	}
	return appended, nil
}
