package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	pkgcache "github.com/ghuser/itemsapi/pkg/cache"
	"github.com/ghuser/itemsapi/pkg/logger"
	"github.com/ghuser/itemsapi/services/item/domain/models"
	"github.com/ghuser/itemsapi/services/item/domain/repositories"
)

const meterName = "github.com/ghuser/itemsapi/services/item"

// RecentItemsCache is the read-model cache used by List. *pkgcache.RecentItemsCache satisfies it.
type RecentItemsCache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64, limit int) ([]pkgcache.CachedItem, error)
	Set(ctx context.Context, version int64, limit int, items []pkgcache.CachedItem) error
	Invalidate(ctx context.Context) error
}

// ItemService orchestrates creation and retrieval of Items.
// Reads are served from the recent-items cache when one is configured;
// every cache failure falls through to the repository.
//
// When invalidation fails after a write, this instance stops reading the
// cache until any snapshot taken before the write has expired.
type ItemService struct {
	repo    repositories.ItemRepository
	cache   RecentItemsCache
	log     logger.Logger
	created metric.Int64Counter

	// bypassUntil is a unix-nano deadline; List skips the cache before it.
	bypassUntil atomic.Int64
	now         func() time.Time
}

// NewItemService returns an ItemService wired with the given repository.
// itemCache may be nil.
func NewItemService(repo repositories.ItemRepository, itemCache RecentItemsCache, log logger.Logger) *ItemService {
	created, err := otel.Meter(meterName).Int64Counter("items.created",
		metric.WithDescription("Items persisted through POST /api/items"),
	)
	if err != nil {
		created = noop.Int64Counter{}
	}
	return &ItemService{repo: repo, cache: itemCache, log: log, created: created, now: time.Now}
}

// Create validates name and persists a new Item. Returns ErrNameRequired for
// blank input without touching storage.
func (s *ItemService) Create(ctx context.Context, name string) (*models.Item, error) {
	itemName, err := models.NewItemName(name)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.Create(ctx, itemName)
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.created.Add(ctx, 1)

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.bypassUntil.Store(s.now().Add(pkgcache.RecentItemsTTL).UnixNano())
			s.log.WarnContext(ctx, "recent items cache invalidation failed, bypassing cache",
				"error", err, "bypass", pkgcache.RecentItemsTTL.String())
		}
	}

	return item, nil
}

// List returns the newest items, at most repositories.MaxListLimit of them.
func (s *ItemService) List(ctx context.Context) ([]*models.Item, error) {
	const limit = repositories.MaxListLimit

	var version int64
	cacheUsable := s.cache != nil && s.now().UnixNano() >= s.bypassUntil.Load()
	if cacheUsable {
		v, err := s.cache.Version(ctx)
		if err != nil {
			s.log.WarnContext(ctx, "recent items cache unavailable", "error", err)
			cacheUsable = false
		}
		version = v
	}

	if cacheUsable {
		cached, err := s.cache.Get(ctx, version, limit)
		if err == nil {
			return fromCached(cached), nil
		}
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "recent items cache read failed", "error", err)
		}
	}

	items, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	if cacheUsable {
		if err := s.cache.Set(ctx, version, limit, toCached(items)); err != nil {
			s.log.WarnContext(ctx, "recent items cache write failed", "error", err)
		}
	}

	return items, nil
}

func toCached(items []*models.Item) []pkgcache.CachedItem {
	out := make([]pkgcache.CachedItem, len(items))
	for i, item := range items {
		out[i] = pkgcache.CachedItem{ID: item.ID, Name: item.Name.String(), CreatedAt: item.CreatedAt}
	}
	return out
}

func fromCached(cached []pkgcache.CachedItem) []*models.Item {
	out := make([]*models.Item, len(cached))
	for i, c := range cached {
		out[i] = &models.Item{ID: c.ID, Name: models.ItemName(c.Name), CreatedAt: c.CreatedAt}
	}
	return out
}
