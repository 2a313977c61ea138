package handlers

import (
	"errors"
	"net/http"

	"github.com/ghuser/itemsapi/pkg/database"
	"github.com/ghuser/itemsapi/pkg/errhttp"
	"github.com/ghuser/itemsapi/pkg/httpx"
	"github.com/ghuser/itemsapi/pkg/logger"
	"github.com/ghuser/itemsapi/pkg/telemetry"
	pkgvalidator "github.com/ghuser/itemsapi/pkg/validator"
	appsvcs "github.com/ghuser/itemsapi/services/item/application/services"
	itemdomain "github.com/ghuser/itemsapi/services/item/domain"
)

// CreateItemRequest is the request body for POST /items.
// Name is a pointer so a missing field and a non-string value are both rejected.
type CreateItemRequest struct {
	Name *string `json:"name" validate:"required,notblank" example:"Widget"`
} // @name CreateItemRequest

// PostItemHandler handles POST /items requests.
type PostItemHandler struct {
	svc *appsvcs.Services
	log logger.Logger
}

// NewPostItemHandler returns a PostItemHandler backed by the given services.
func NewPostItemHandler(svc *appsvcs.Services, log logger.Logger) *PostItemHandler {
	return &PostItemHandler{svc: svc, log: log}
}

// Execute creates a new item.
//
//	@Summary		Create item
//	@Description	Stores an item with the trimmed name; id and created_at are assigned by the database
//	@Tags			items
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateItemRequest	true	"Item creation request"
//	@Success		201		{object}	ItemResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, err := pkgvalidator.DecodeAndValidate[CreateItemRequest](r)
	if err != nil {
		var fe pkgvalidator.FieldErrors
		if errors.As(err, &fe) {
			err = itemdomain.ErrNameRequired
		}
		errhttp.WriteError(w, err)
		return
	}

	item, err := h.svc.Item.Create(r.Context(), *req.Name)
	if err != nil {
		logStorageError(r, h.log, err)
		errhttp.WriteError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toItemResponse(item))
}

// logStorageError records storage failures with the failing operation and
// forwards them to Sentry.
func logStorageError(r *http.Request, log logger.Logger, err error) {
	var se *database.StorageError
	if errors.As(err, &se) {
		log.ErrorContext(r.Context(), "storage error", "op", se.Op, "error", se.Err)
	}
	telemetry.CaptureError(r.Context(), err)
}
