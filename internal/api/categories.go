package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/sladica/internal/cache"
	"github.com/erazemk/sladica/internal/model"
	"github.com/erazemk/sladica/internal/store"
	"github.com/erazemk/sladica/internal/validate"
)

// CategoriesHandler handles category CRUD endpoints.
type CategoriesHandler struct {
	DB        *sql.DB
	Validator *validate.Validator
	Uploads   uploader
	Cache     *cache.Cache
}

// List handles GET /categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, "failed to list categories", err)
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Get handles GET /categories/{id}.
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonMessage(w, http.StatusNotFound, "Category not found")
		return
	}

	category, err := store.GetCategory(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "failed to get category", err)
		return
	}
	if category == nil {
		jsonMessage(w, http.StatusNotFound, "Category not found")
		return
	}
	jsonResponse(w, http.StatusOK, category)
}

// readCategory reads and validates a category field set. On create every
// required field must be present.
func (h *CategoriesHandler) readCategory(r *http.Request, p validate.Payload, create bool) (model.CategoryInput, []byte, validate.Errors, error) {
	in := validate.NewReader(p)
	if create {
		in.Require("name")
	} else {
		in.NotNull("name")
	}

	input := model.CategoryInput{Name: in.String("name")}
	if err := h.Validator.Struct(input, in.Errs); err != nil {
		return input, nil, nil, err
	}

	image, err := h.Uploads.process(r, p, in.Errs)
	if err != nil {
		return input, nil, nil, err
	}
	return input, image, in.Errs, nil
}

// Create handles POST /categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := readPayload(r)
	if err != nil {
		requestError(w, r, err)
		return
	}

	input, image, errs, err := h.readCategory(r, p, true)
	if err != nil {
		serverError(w, r, "failed to validate category", err)
		return
	}
	if errs.Err() != nil {
		validationError(w, errs)
		return
	}

	if input.Image, err = h.Uploads.save(model.CategoryImageDir, image); err != nil {
		serverError(w, r, "failed to save image", err)
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, *input.Name, input.Image)
	if err != nil {
		h.Uploads.discard(input.Image)
		serverError(w, r, "failed to create category", err)
		return
	}

	invalidate(r, h.Cache)
	slog.Info("category created", "admin", adminEmail(r.Context()), "category", category.Name)
	jsonResponse(w, http.StatusCreated, category)
}

// Update handles PUT and PATCH /categories/{id}.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonMessage(w, http.StatusNotFound, "Category not found")
		return
	}

	p, err := readPayload(r)
	if err != nil {
		requestError(w, r, err)
		return
	}

	input, image, errs, err := h.readCategory(r, p, false)
	if err != nil {
		serverError(w, r, "failed to validate category", err)
		return
	}

	if errs.Err() != nil {
		validationError(w, errs)
		return
	}

	if input.Image, err = h.Uploads.save(model.CategoryImageDir, image); err != nil {
		serverError(w, r, "failed to save image", err)
		return
	}

	err = store.UpdateCategory(r.Context(), h.DB, id, input)
	if errors.Is(err, store.ErrNotFound) {
		h.Uploads.discard(input.Image)
		jsonMessage(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		h.Uploads.discard(input.Image)
		serverError(w, r, "failed to update category", err)
		return
	}

	category, err := store.GetCategory(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "failed to get category", err)
		return
	}

	invalidate(r, h.Cache)
	slog.Info("category updated", "admin", adminEmail(r.Context()), "category", category.Name)
	jsonResponse(w, http.StatusOK, category)
}

// Delete handles DELETE /categories/{id}. Items in the category are kept.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonMessage(w, http.StatusNotFound, "Category not found")
		return
	}

	err := store.DeleteCategory(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonMessage(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		serverError(w, r, "failed to delete category", err)
		return
	}

	invalidate(r, h.Cache)
	slog.Info("category deleted", "admin", adminEmail(r.Context()), "id", id)
	noContent(w)
}

// invalidate drops cached public responses after a change.
func invalidate(r *http.Request, c *cache.Cache) {
	if err := c.Invalidate(r.Context()); err != nil {
		slog.Warn("cache invalidation failed", "error", err)
	}
}
