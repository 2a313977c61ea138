// Package memory provides an in-process ItemRepository for tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ghuser/itemsapi/services/item/domain/models"
)

// ItemRepository keeps items in a slice guarded by a mutex. IDs start at 1
// and CreatedAt comes from Now, which defaults to time.Now.
type ItemRepository struct {
	mu     sync.Mutex
	items  []models.Item
	nextID int64

	// Now supplies CreatedAt for new items.
	Now func() time.Time
	// Err, when set, is returned by every call.
	Err error

	creates int
}

// NewItemRepository returns an empty repository.
func NewItemRepository() *ItemRepository {
	return &ItemRepository{nextID: 1, Now: time.Now}
}

func (r *ItemRepository) Create(_ context.Context, name models.ItemName) (*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.Err != nil {
		return nil, r.Err
	}

	item := models.Item{ID: r.nextID, Name: name, CreatedAt: r.Now().UTC()}
	r.nextID++
	r.items = append(r.items, item)
	return &item, nil
}

func (r *ItemRepository) ListRecent(_ context.Context, limit int) ([]*models.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}

	sorted := make([]models.Item, len(r.items))
	copy(sorted, r.items)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]*models.Item, len(sorted))
	for i := range sorted {
		out[i] = &sorted[i]
	}
	return out, nil
}

// Creates reports how many times Create was called, including failed calls.
func (r *ItemRepository) Creates() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates
}
