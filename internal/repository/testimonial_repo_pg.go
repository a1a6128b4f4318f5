package repository

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type TestimonialRepository interface {
	Create(ctx context.Context, t *domain.Testimonial) error
	List(ctx context.Context, approvedOnly bool) ([]domain.Testimonial, error)
	SetApproved(ctx context.Context, id string, approved bool) error
	Delete(ctx context.Context, id string) error
}

type PGTestimonialRepository struct {
	db DB
}

func NewTestimonialRepository(db DB) TestimonialRepository {
	return &PGTestimonialRepository{db: db}
}

func (r *PGTestimonialRepository) Create(ctx context.Context, t *domain.Testimonial) error {
	err := r.db.QueryRow(ctx, `INSERT INTO testimonials (id, name, designation, message, rating, photo_url, approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`,
		t.ID, t.Name, t.Designation, t.Message, t.Rating, t.PhotoURL, t.Approved).Scan(&t.CreatedAt)
	return mapError(err, "create testimonial")
}

func (r *PGTestimonialRepository) List(ctx context.Context, approvedOnly bool) ([]domain.Testimonial, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, designation, message, rating, photo_url, approved, created_at
		FROM testimonials WHERE (NOT $1 OR approved) ORDER BY created_at DESC`, approvedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Testimonial, 0)
	for rows.Next() {
		var t domain.Testimonial
		if err := rows.Scan(&t.ID, &t.Name, &t.Designation, &t.Message, &t.Rating, &t.PhotoURL, &t.Approved, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *PGTestimonialRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE testimonials SET approved=$1 WHERE id=$2`, approved, id)
	if err != nil {
		return err
	}
	return affected(tag, "testimonial")
}

func (r *PGTestimonialRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM testimonials WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affected(tag, "testimonial")
}

var _ TestimonialRepository = (*PGTestimonialRepository)(nil)
