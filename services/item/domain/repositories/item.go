package repositories

import (
	"context"

	"github.com/ghuser/itemsapi/services/item/domain/models"
)

// MaxListLimit caps the number of items returned by a single list query.
const MaxListLimit = 100

// ItemRepository is the persistence interface for the Item aggregate.
// The domain layer owns this interface; infrastructure implements it.
// Implementations report storage failures as *database.StorageError.
type ItemRepository interface {
	// Create inserts a row with the given name and returns it with the
	// storage-assigned ID and CreatedAt.
	Create(ctx context.Context, name models.ItemName) (*models.Item, error)

	// ListRecent returns up to limit items, newest first. Items sharing a
	// created_at are ordered by descending ID.
	ListRecent(ctx context.Context, limit int) ([]*models.Item, error)
}
