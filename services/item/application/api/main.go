package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/itemsapi/pkg/app"
	"github.com/ghuser/itemsapi/pkg/logger"
	"github.com/ghuser/itemsapi/services/item/application/handlers"
	appsvcs "github.com/ghuser/itemsapi/services/item/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router.
func ItemRoutes(r chi.Router, a *app.Application) {
	MountItemRoutes(r, appsvcs.New(a), a.Logger)
}

// MountItemRoutes registers item endpoints backed by an explicit service container.
func MountItemRoutes(r chi.Router, svcs *appsvcs.Services, log logger.Logger) {
	r.Get("/items", handlers.NewListItemsHandler(svcs, log).Execute)
	r.Post("/items", handlers.NewPostItemHandler(svcs, log).Execute)
}
