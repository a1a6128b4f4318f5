package repository

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	FindByUserAndPackage(ctx context.Context, userID, packageID string) (*domain.Review, error)
	ListByPackage(ctx context.Context, packageID string) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Review, error)
	ListAll(ctx context.Context) ([]domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id string) error
}

type PGReviewRepository struct {
	db DB
}

func NewReviewRepository(db DB) ReviewRepository {
	return &PGReviewRepository{db: db}
}

const reviewColumns = `id, user_id, package_id, user_name, rating, comment, created_at, updated_at`

func scanReview(row interface{ Scan(...any) error }) (*domain.Review, error) {
	var rv domain.Review
	if err := row.Scan(&rv.ID, &rv.UserID, &rv.PackageID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt); err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *PGReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	err := r.db.QueryRow(ctx, `INSERT INTO reviews (id, user_id, package_id, user_name, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		rv.ID, rv.UserID, rv.PackageID, rv.UserName, rv.Rating, rv.Comment).
		Scan(&rv.CreatedAt, &rv.UpdatedAt)
	return mapError(err, "create review")
}

func (r *PGReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	rv, err := scanReview(r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "review")
	}
	return rv, nil
}

func (r *PGReviewRepository) FindByUserAndPackage(ctx context.Context, userID, packageID string) (*domain.Review, error) {
	rv, err := scanReview(r.db.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE user_id=$1 AND package_id=$2`, userID, packageID))
	if err != nil {
		return nil, mapError(err, "review")
	}
	return rv, nil
}

func (r *PGReviewRepository) ListByPackage(ctx context.Context, packageID string) ([]domain.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE package_id=$1 ORDER BY created_at DESC`, packageID)
}

func (r *PGReviewRepository) ListByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *PGReviewRepository) ListAll(ctx context.Context) ([]domain.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews ORDER BY created_at DESC`)
}

func (r *PGReviewRepository) list(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]domain.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *rv)
	}
	return reviews, rows.Err()
}

func (r *PGReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	err := r.db.QueryRow(ctx, `UPDATE reviews SET rating=$2, comment=$3, updated_at=now() WHERE id=$1 RETURNING updated_at`,
		rv.ID, rv.Rating, rv.Comment).Scan(&rv.UpdatedAt)
	return mapError(err, "review")
}

func (r *PGReviewRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affected(tag, "review")
}

var _ ReviewRepository = (*PGReviewRepository)(nil)
