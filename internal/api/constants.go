package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/sladica/internal/cache"
	"github.com/erazemk/sladica/internal/model"
	"github.com/erazemk/sladica/internal/store"
	"github.com/erazemk/sladica/internal/validate"
)

// ConstantsHandler handles the menu constant endpoints.
type ConstantsHandler struct {
	DB        *sql.DB
	Validator *validate.Validator
	Cache     *cache.Cache
}

type bulkResponse struct {
	Message      string `json:"message"`
	UpdatedCount int    `json:"updated_count"`
}

// List handles GET /menu-constants. Every menu key is present; keys without
// a stored value are null.
func (h *ConstantsHandler) List(w http.ResponseWriter, r *http.Request) {
	values, err := store.MenuValues(r.Context(), h.DB, model.MenuKeys)
	if err != nil {
		serverError(w, r, "failed to list constants", err)
		return
	}
	jsonResponse(w, http.StatusOK, values)
}

// Get handles GET /menu-constants/{key}.
func (h *ConstantsHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := store.GetConstant(r.Context(), h.DB, r.PathValue("key"))
	if err != nil {
		serverError(w, r, "failed to get constant", err)
		return
	}
	if c == nil {
		jsonMessage(w, http.StatusNotFound, "Key not found")
		return
	}
	jsonResponse(w, http.StatusOK, c)
}

// Create handles POST /menu-constants.
func (h *ConstantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := readPayload(r)
	if err != nil {
		requestError(w, r, err)
		return
	}

	in := validate.NewReader(p)
	in.Require("keyName")
	input := model.ConstantInput{
		KeyName:  in.String("keyName"),
		KeyValue: in.NullString("keyValue"),
	}
	if err := h.Validator.Struct(input, in.Errs); err != nil {
		serverError(w, r, "failed to validate constant", err)
		return
	}
	if in.Errs.Err() != nil {
		validationError(w, in.Errs)
		return
	}

	var value *string
	if input.KeyValue != nil && input.KeyValue.Valid {
		value = &input.KeyValue.V
	}
	c, err := store.CreateConstant(r.Context(), h.DB, *input.KeyName, value)
	if errors.Is(err, store.ErrConflict) {
		in.Errs.Add("keyName", "The key name has already been taken.")
		validationError(w, in.Errs)
		return
	}
	if err != nil {
		serverError(w, r, "failed to create constant", err)
		return
	}

	invalidate(r, h.Cache)
	slog.Info("constant created", "admin", adminEmail(r.Context()), "key", c.KeyName)
	jsonResponse(w, http.StatusCreated, c)
}

// Update handles PUT and PATCH /menu-constants/{key}. The value is left
// unchanged when keyValue is not supplied.
func (h *ConstantsHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	p, err := readPayload(r)
	if err != nil {
		requestError(w, r, err)
		return
	}

	in := validate.NewReader(p)
	value := in.NullString("keyValue")
	if in.Errs.Err() != nil {
		validationError(w, in.Errs)
		return
	}

	if value != nil {
		var v *string
		if value.Valid {
			v = &value.V
		}
		err = store.UpdateConstant(r.Context(), h.DB, key, v)
		if errors.Is(err, store.ErrNotFound) {
			jsonMessage(w, http.StatusNotFound, "Key not found")
			return
		}
		if err != nil {
			serverError(w, r, "failed to update constant", err)
			return
		}
	}

	c, err := store.GetConstant(r.Context(), h.DB, key)
	if err != nil {
		serverError(w, r, "failed to get constant", err)
		return
	}
	if c == nil {
		jsonMessage(w, http.StatusNotFound, "Key not found")
		return
	}

	if value != nil {
		invalidate(r, h.Cache)
		slog.Info("constant updated", "admin", adminEmail(r.Context()), "key", key)
	}
	jsonResponse(w, http.StatusOK, c)
}

// Delete handles DELETE /menu-constants/{key}.
func (h *ConstantsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	err := store.DeleteConstant(r.Context(), h.DB, key)
	if errors.Is(err, store.ErrNotFound) {
		jsonMessage(w, http.StatusNotFound, "Key not found")
		return
	}
	if err != nil {
		serverError(w, r, "failed to delete constant", err)
		return
	}

	invalidate(r, h.Cache)
	slog.Info("constant deleted", "admin", adminEmail(r.Context()), "key", key)
	noContent(w)
}

// Bulk handles POST /menu-constants-bulk. Keys that do not exist are
// skipped; the response counts the keys actually updated.
func (h *ConstantsHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	p, err := readPayload(r)
	if err != nil {
		requestError(w, r, err)
		return
	}

	in := validate.NewReader(p)
	in.Require("constants")
	keys, values := in.StringMap("constants")
	if in.Errs.Err() != nil {
		validationError(w, in.Errs)
		return
	}

	n, err := store.UpdateConstants(r.Context(), h.DB, keys, values)
	if err != nil {
		serverError(w, r, "failed to update constants", err)
		return
	}

	if n > 0 {
		invalidate(r, h.Cache)
	}
	slog.Info("constants updated", "admin", adminEmail(r.Context()), "requested", len(keys), "updated", n)
	jsonResponse(w, http.StatusOK, bulkResponse{
		Message:      fmt.Sprintf("Successfully updated %d constants", n),
		UpdatedCount: n,
	})
}
