package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zobamart/marketplace-backend/internal/models"
	"github.com/zobamart/marketplace-backend/internal/pkg/apperror"
)

// NotificationRepository persists per-user notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification and fills in its generated fields.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, payload, is_read)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	if err := r.db.QueryRowxContext(
		ctx,
		query,
		notification.UserID,
		notification.Payload,
		notification.IsRead,
	).Scan(&notification.ID, &notification.CreatedAt); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDataAccess, "create notification")
	}
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := r.db.GetContext(ctx, &n, `SELECT * FROM notifications WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.New(apperror.ErrCodeNotFound, "notification not found")
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "get notification")
	}
	return &n, nil
}

// List returns a user's notifications, optionally unread only, newest first.
func (r *NotificationRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	var notifications []models.Notification
	var err error
	if unreadOnly {
		err = r.db.SelectContext(ctx, &notifications, `
			SELECT * FROM notifications WHERE user_id = $1 AND is_read = FALSE
			ORDER BY created_at DESC LIMIT $2 OFFSET $3
		`, userID, limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &notifications, `
			SELECT * FROM notifications WHERE user_id = $1
			ORDER BY created_at DESC LIMIT $2 OFFSET $3
		`, userID, limit, offset)
	}
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDataAccess, "list notifications")
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDataAccess, "mark notification read")
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE user_id = $1`, userID)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDataAccess, "mark all notifications read")
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDataAccess, "count unread notifications")
	}
	return count, nil
}
