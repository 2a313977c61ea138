package services

import (
	"github.com/ghuser/itemsapi/pkg/app"
	"github.com/ghuser/itemsapi/pkg/cache"
	"github.com/ghuser/itemsapi/services/item/domain/repositories"
	"github.com/ghuser/itemsapi/services/item/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires all item application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	var itemCache RecentItemsCache
	if a.Redis != nil {
		itemCache = cache.NewRecentItemsCache(a.Redis)
	}
	return NewWithRepository(postgres.NewItemRepository(a.Db, a.EventBus), itemCache, a)
}

// NewWithRepository wires services around an explicit repository.
func NewWithRepository(repo repositories.ItemRepository, itemCache RecentItemsCache, a *app.Application) *Services {
	return &Services{
		Item: NewItemService(repo, itemCache, a.Logger.With("component", "item")),
	}
}
