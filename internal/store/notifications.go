package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/sladica/internal/model"
)

const notificationColumns = `id, message, related_item, created_at, updated_at`

func scanNotification(row interface{ Scan(...any) error }, n *model.Notification) error {
	return row.Scan(&n.ID, &n.Message, &n.RelatedItem, &n.CreatedAt, &n.UpdatedAt)
}

// CreateNotification creates a new notification.
func CreateNotification(ctx context.Context, db *sql.DB, message string, relatedItem *int64) (*model.Notification, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO notifications (message, related_item) VALUES (?, ?)`,
		message, relatedItem,
	)
	if err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting notification id: %w", err)
	}

	return GetNotification(ctx, db, id)
}

// GetNotification returns a notification by ID with its item attached.
func GetNotification(ctx context.Context, db *sql.DB, id int64) (*model.Notification, error) {
	n := &model.Notification{}
	err := scanNotification(db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id,
	), n)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting notification: %w", err)
	}

	if err := attachItems(ctx, db, []*model.Notification{n}); err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotifications returns all notifications in insertion order, each with
// its item.
func ListNotifications(ctx context.Context, db *sql.DB) ([]model.Notification, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := scanNotification(rows, &n); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}

	ptrs := make([]*model.Notification, len(notifications))
	for i := range notifications {
		ptrs[i] = &notifications[i]
	}
	if err := attachItems(ctx, db, ptrs); err != nil {
		return nil, err
	}
	return notifications, nil
}

// attachItems sets Item on each notification that refers to an existing item.
func attachItems(ctx context.Context, db *sql.DB, notifications []*model.Notification) error {
	byID := make(map[int64]*model.Item)
	for _, n := range notifications {
		if n.RelatedItem == nil {
			continue
		}
		id := *n.RelatedItem
		if _, seen := byID[id]; !seen {
			item := &model.Item{}
			err := scanItem(db.QueryRowContext(ctx,
				`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
			), item)
			switch {
			case err == sql.ErrNoRows:
				item = nil
			case err != nil:
				return fmt.Errorf("getting notification item: %w", err)
			}
			byID[id] = item
		}
		n.Item = byID[id]
	}
	return nil
}

// UpdateNotification applies the supplied fields of in; nil fields are left unchanged.
func UpdateNotification(ctx context.Context, db *sql.DB, id int64, in model.NotificationInput) error {
	var p patch
	if in.Message != nil {
		p.set("message", *in.Message)
	}
	if in.RelatedItem != nil {
		p.set("related_item", *in.RelatedItem)
	}
	return p.exec(ctx, db, "notifications", "id = ?", id)
}

// DeleteNotification deletes a notification.
func DeleteNotification(ctx context.Context, db *sql.DB, id int64) error {
	return deleteRow(ctx, db, "notifications", "id = ?", id)
}
