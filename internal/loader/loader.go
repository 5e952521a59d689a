// Package loader bulk-loads finished datasets from the sink into Postgres so
// downstream applications can query them.
package loader

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eventhub/datagen/internal/models"
	"github.com/eventhub/datagen/internal/sink"
)

const insertBatchSize = 500

// Loader copies every sink collection into its database table. Inserts skip
// identifiers that already exist, so re-running the load after an append-mode
// generation only adds the new records.
type Loader struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Loader {
	return &Loader{db: db}
}

// LoadAll pushes all six collections in dependency order.
func (l *Loader) LoadAll(ctx context.Context, s sink.Sink) error {
	if err := loadEntity[models.User](ctx, l.db, s, models.EntityUsers); err != nil {
		return err
	}
	if err := loadEntity[models.Venue](ctx, l.db, s, models.EntityVenues); err != nil {
		return err
	}
	if err := loadEntity[models.Event](ctx, l.db, s, models.EntityEvents); err != nil {
		return err
	}
	if err := loadEntity[models.KBArticle](ctx, l.db, s, models.EntityKBArticles); err != nil {
		return err
	}
	if err := loadEntity[models.Reservation](ctx, l.db, s, models.EntityReservations); err != nil {
		return err
	}
	return loadEntity[models.Ticket](ctx, l.db, s, models.EntityTickets)
}

func loadEntity[T any](ctx context.Context, db *gorm.DB, s sink.Sink, entity models.EntityType) error {
	records, err := sink.ReadAs[T](s, entity)
	if err != nil {
		return fmt.Errorf("read %s: %w", entity, err)
	}
	if len(records) == 0 {
		log.Printf("[Loader] %s: nothing to load", entity)
		return nil
	}

	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(records, insertBatchSize)
	if result.Error != nil {
		return fmt.Errorf("insert %s: %w", entity, result.Error)
	}

	log.Printf("[Loader] %s: loaded %d records (%d new)", entity, len(records), result.RowsAffected)
	return nil
}
