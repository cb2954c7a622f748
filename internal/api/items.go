package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/erazemk/sladica/internal/cache"
	"github.com/erazemk/sladica/internal/model"
	"github.com/erazemk/sladica/internal/store"
	"github.com/erazemk/sladica/internal/validate"
)

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB        *sql.DB
	Validator *validate.Validator
	Uploads   uploader
	Cache     *cache.Cache
}

// List handles GET /items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, "failed to list items", err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonMessage(w, http.StatusNotFound, "Item not found")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "failed to get item", err)
		return
	}
	if item == nil {
		jsonMessage(w, http.StatusNotFound, "Item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// readItem reads and validates an item field set. On create every required
// field must be present.
func (h *ItemsHandler) readItem(r *http.Request, p validate.Payload, create bool) (model.ItemInput, []byte, validate.Errors, error) {
	in := validate.NewReader(p)
	for _, field := range []string{"name", "price", "category_id"} {
		if create {
			in.Require(field)
		} else {
			in.NotNull(field)
		}
	}
	in.NotNull("is_sale")

	input := model.ItemInput{
		Name:        in.String("name"),
		Description: in.NullString("description"),
		Price:       in.Decimal("price"),
		IsSale:      in.Bool("is_sale"),
		SalePrice:   in.NullDecimal("sale_price"),
		CategoryID:  in.Int("category_id"),
	}
	if err := h.Validator.Struct(input, in.Errs); err != nil {
		return input, nil, nil, err
	}
	if input.CategoryID != nil && !in.Errs.Has("category_id") {
		if err := h.Validator.Exists(r.Context(), in.Errs, "category_id", "categories", *input.CategoryID); err != nil {
			return input, nil, nil, err
		}
	}

	image, err := h.Uploads.process(r, p, in.Errs)
	if err != nil {
		return input, nil, nil, err
	}
	return input, image, in.Errs, nil
}

// Create handles POST /items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := readPayload(r)
	if err != nil {
		requestError(w, r, err)
		return
	}

	input, image, errs, err := h.readItem(r, p, true)
	if err != nil {
		serverError(w, r, "failed to validate item", err)
		return
	}
	if errs.Err() != nil {
		validationError(w, errs)
		return
	}

	if input.Image, err = h.Uploads.save(model.ItemImageDir, image); err != nil {
		serverError(w, r, "failed to save image", err)
		return
	}

	n := store.NewItem{
		Name:       *input.Name,
		Price:      *input.Price,
		CategoryID: *input.CategoryID,
		Image:      input.Image,
	}
	if input.Description != nil && input.Description.Valid {
		n.Description = &input.Description.V
	}
	if input.IsSale != nil {
		n.IsSale = *input.IsSale
	}
	if input.SalePrice != nil && input.SalePrice.Valid {
		n.SalePrice = decimal.NewNullDecimal(input.SalePrice.V)
	}

	item, err := store.CreateItem(r.Context(), h.DB, n)
	if err != nil {
		h.Uploads.discard(input.Image)
		serverError(w, r, "failed to create item", err)
		return
	}

	invalidate(r, h.Cache)
	slog.Info("item created", "admin", adminEmail(r.Context()), "item", item.Name)
	jsonResponse(w, http.StatusCreated, item)
}

// Update handles PUT and PATCH /items/{id}. Only supplied fields change.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonMessage(w, http.StatusNotFound, "Item not found")
		return
	}

	p, err := readPayload(r)
	if err != nil {
		requestError(w, r, err)
		return
	}

	input, image, errs, err := h.readItem(r, p, false)
	if err != nil {
		serverError(w, r, "failed to validate item", err)
		return
	}
	if errs.Err() != nil {
		validationError(w, errs)
		return
	}

	if input.Image, err = h.Uploads.save(model.ItemImageDir, image); err != nil {
		serverError(w, r, "failed to save image", err)
		return
	}

	err = store.UpdateItem(r.Context(), h.DB, id, input)
	if errors.Is(err, store.ErrNotFound) {
		h.Uploads.discard(input.Image)
		jsonMessage(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		h.Uploads.discard(input.Image)
		serverError(w, r, "failed to update item", err)
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "failed to get item", err)
		return
	}

	invalidate(r, h.Cache)
	slog.Info("item updated", "admin", adminEmail(r.Context()), "item", item.Name)
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /items/{id}. Notifications about the item are kept.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonMessage(w, http.StatusNotFound, "Item not found")
		return
	}

	err := store.DeleteItem(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonMessage(w, http.StatusNotFound, "Item not found")
		return
	}
	if err != nil {
		serverError(w, r, "failed to delete item", err)
		return
	}

	invalidate(r, h.Cache)
	slog.Info("item deleted", "admin", adminEmail(r.Context()), "id", id)
	noContent(w)
}
