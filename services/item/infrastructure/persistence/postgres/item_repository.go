package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/ghuser/itemsapi/pkg/database"
	"github.com/ghuser/itemsapi/pkg/events"
	domainevents "github.com/ghuser/itemsapi/services/item/domain/events"
	"github.com/ghuser/itemsapi/services/item/domain/models"
	"github.com/ghuser/itemsapi/services/item/infrastructure/persistence/postgres/db"
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	db  *database.Database
	bus *events.EventBus
}

// NewItemRepository returns an ItemRepository backed by the given connection pool.
// bus may be nil; when set, an ItemCreatedEvent is written in the insert transaction.
func NewItemRepository(database *database.Database, bus *events.EventBus) *ItemRepository {
	return &ItemRepository{db: database, bus: bus}
}

// Create inserts a new row and returns it with the storage-assigned ID and CreatedAt.
func (r *ItemRepository) Create(ctx context.Context, name models.ItemName) (*models.Item, error) {
	if r.bus == nil {
		row, err := db.New(r.db.DB()).InsertItem(ctx, name.String())
		if err != nil {
			return nil, database.Wrap("insert item", err)
		}
		return rowToItem(row), nil
	}

	var item *models.Item
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		row, err := db.New(tx).InsertItem(ctx, name.String())
		if err != nil {
			return database.Wrap("insert item", err)
		}
		item = rowToItem(row)

		if err := r.publishCreated(ctx, tx, item); err != nil {
			return database.Wrap("publish item created", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListRecent returns up to limit items ordered by created_at then id, both descending.
func (r *ItemRepository) ListRecent(ctx context.Context, limit int) ([]*models.Item, error) {
	rows, err := db.New(r.db.DB()).ListRecentItems(ctx, int32(limit))
	if err != nil {
		return nil, database.Wrap("list items", err)
	}

	items := make([]*models.Item, len(rows))
	for i, row := range rows {
		items[i] = rowToItem(row)
	}
	return items, nil
}

func (r *ItemRepository) publishCreated(ctx context.Context, tx *sql.Tx, item *models.Item) error {
	event := domainevents.ItemCreatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     item.ID,
		Name:       item.Name.String(),
		OccurredAt: item.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", strconv.Itoa(event.Version))
	return r.bus.PublishTx(ctx, tx, domainevents.TopicItemCreated, msg)
}

// rowToItem maps a db.ItemsItem to a domain models.Item.
func rowToItem(row db.ItemsItem) *models.Item {
	item := &models.Item{
		ID:   row.ID,
		Name: models.ItemName(row.Name),
	}
	if row.CreatedAt.Valid {
		item.CreatedAt = row.CreatedAt.Time.UTC()
	}
	return item
}
