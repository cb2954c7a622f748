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

// NotificationsHandler handles notification CRUD endpoints.
type NotificationsHandler struct {
	DB        *sql.DB
	Validator *validate.Validator
	Cache     *cache.Cache
}

// List handles GET /notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	notifications, err := store.ListNotifications(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, "failed to list notifications", err)
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	jsonResponse(w, http.StatusOK, notifications)
}

// Get handles GET /notifications/{id}.
func (h *NotificationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonMessage(w, http.StatusNotFound, "Notification not found")
		return
	}

	n, err := store.GetNotification(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "failed to get notification", err)
		return
	}
	if n == nil {
		jsonMessage(w, http.StatusNotFound, "Notification not found")
		return
	}
	jsonResponse(w, http.StatusOK, n)
}

func (h *NotificationsHandler) readNotification(r *http.Request, p validate.Payload, create bool) (model.NotificationInput, validate.Errors, error) {
	in := validate.NewReader(p)
	if create {
		in.Require("message")
	} else {
		in.NotNull("message")
	}

	input := model.NotificationInput{
		Message:     in.String("message"),
		RelatedItem: in.NullInt("related_item"),
	}
	if err := h.Validator.Struct(input, in.Errs); err != nil {
		return input, nil, err
	}
	if ri := input.RelatedItem; ri != nil && ri.Valid && !in.Errs.Has("related_item") {
		if err := h.Validator.Exists(r.Context(), in.Errs, "related_item", "items", ri.V); err != nil {
			return input, nil, err
		}
	}
	return input, in.Errs, nil
}

// Create handles POST /notifications.
func (h *NotificationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := readPayload(r)
	if err != nil {
		requestError(w, r, err)
		return
	}

	input, errs, err := h.readNotification(r, p, true)
	if err != nil {
		serverError(w, r, "failed to validate notification", err)
		return
	}
	if errs.Err() != nil {
		validationError(w, errs)
		return
	}

	var relatedItem *int64
	if input.RelatedItem != nil && input.RelatedItem.Valid {
		relatedItem = &input.RelatedItem.V
	}
	n, err := store.CreateNotification(r.Context(), h.DB, *input.Message, relatedItem)
	if err != nil {
		serverError(w, r, "failed to create notification", err)
		return
	}

	invalidate(r, h.Cache)
	slog.Info("notification created", "admin", adminEmail(r.Context()), "id", n.ID)
	jsonResponse(w, http.StatusCreated, n)
}

// Update handles PUT and PATCH /notifications/{id}.
func (h *NotificationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonMessage(w, http.StatusNotFound, "Notification not found")
		return
	}

	p, err := readPayload(r)
	if err != nil {
		requestError(w, r, err)
		return
	}

	input, errs, err := h.readNotification(r, p, false)
	if err != nil {
		serverError(w, r, "failed to validate notification", err)
		return
	}
	if errs.Err() != nil {
		validationError(w, errs)
		return
	}

	err = store.UpdateNotification(r.Context(), h.DB, id, input)
	if errors.Is(err, store.ErrNotFound) {
		jsonMessage(w, http.StatusNotFound, "Notification not found")
		return
	}
	if err != nil {
		serverError(w, r, "failed to update notification", err)
		return
	}

	n, err := store.GetNotification(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, "failed to get notification", err)
		return
	}

	invalidate(r, h.Cache)
	slog.Info("notification updated", "admin", adminEmail(r.Context()), "id", id)
	jsonResponse(w, http.StatusOK, n)
}

// Delete handles DELETE /notifications/{id}.
func (h *NotificationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonMessage(w, http.StatusNotFound, "Notification not found")
		return
	}

	err := store.DeleteNotification(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonMessage(w, http.StatusNotFound, "Notification not found")
		return
	}
	if err != nil {
		serverError(w, r, "failed to delete notification", err)
		return
	}

	invalidate(r, h.Cache)
	slog.Info("notification deleted", "admin", adminEmail(r.Context()), "id", id)
	noContent(w)
}
