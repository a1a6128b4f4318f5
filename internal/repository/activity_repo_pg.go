package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type ActivityRepository interface {
	Create(ctx context.Context, a *domain.Activity) error
	ListBetween(ctx context.Context, from, to time.Time, limit, offset int) ([]domain.Activity, error)
}

type PGActivityRepository struct {
	db DB
}

func NewActivityRepository(db DB) ActivityRepository {
	return &PGActivityRepository{db: db}
}

func (r *PGActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	var metadata any
	if len(a.Metadata) > 0 {
		metadata = string(a.Metadata)
	}
	err := r.db.QueryRow(ctx, `INSERT INTO activities (id, type, user_id, package_id, metadata)
		VALUES ($1, $2, $3, $4, $5::jsonb) RETURNING created_at`,
		a.ID, a.Type, a.UserID, a.PackageID, metadata).Scan(&a.CreatedAt)
	return mapError(err, "create activity")
}

// ListBetween returns activities with from <= created_at < to, oldest first.
func (r *PGActivityRepository) ListBetween(ctx context.Context, from, to time.Time, limit, offset int) ([]domain.Activity, error) {
	rows, err := r.db.Query(ctx, `SELECT id, type, user_id, package_id, created_at
		FROM activities WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at, id LIMIT $3 OFFSET $4`, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Activity, 0, limit)
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.ID, &a.Type, &a.UserID, &a.PackageID, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ ActivityRepository = (*PGActivityRepository)(nil)
