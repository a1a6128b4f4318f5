package repository

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type PGNotificationRepository struct {
	db DB
}

func NewNotificationRepository(db DB) NotificationRepository {
	return &PGNotificationRepository{db: db}
}

func (r *PGNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	err := r.db.QueryRow(ctx, `INSERT INTO notifications (id, user_id, title, message, type)
		VALUES ($1, $2, $3, $4, $5) RETURNING read, created_at`,
		n.ID, n.UserID, n.Title, n.Message, n.Type).Scan(&n.Read, &n.CreatedAt)
	return mapError(err, "create notification")
}

func (r *PGNotificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, title, message, type, read, created_at
		FROM notifications WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Notification, 0)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead only touches notifications owned by userID.
func (r *PGNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET read=true WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	return affected(tag, "notification")
}

func (r *PGNotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE notifications SET read=true WHERE user_id=$1 AND NOT read`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ NotificationRepository = (*PGNotificationRepository)(nil)
