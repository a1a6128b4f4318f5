package repository

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type CareerRepository interface {
	List(ctx context.Context, openOnly bool) ([]domain.Career, error)
	GetByID(ctx context.Context, id string) (*domain.Career, error)
	Create(ctx context.Context, c *domain.Career) error
	Update(ctx context.Context, c *domain.Career) error
	Delete(ctx context.Context, id string) error
	CreateApplication(ctx context.Context, a *domain.Application) error
	ListApplications(ctx context.Context, careerID string) ([]domain.Application, error)
}

type PGCareerRepository struct {
	db DB
}

func NewCareerRepository(db DB) CareerRepository {
	return &PGCareerRepository{db: db}
}

const careerColumns = `id, title, department, location, employment_type, description, open, created_at`

func scanCareer(row interface{ Scan(...any) error }) (*domain.Career, error) {
	var c domain.Career
	if err := row.Scan(&c.ID, &c.Title, &c.Department, &c.Location, &c.EmploymentType, &c.Description, &c.Open, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGCareerRepository) List(ctx context.Context, openOnly bool) ([]domain.Career, error) {
	rows, err := r.db.Query(ctx, `SELECT `+careerColumns+` FROM careers WHERE (NOT $1 OR open) ORDER BY created_at DESC`, openOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Career, 0)
	for rows.Next() {
		c, err := scanCareer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *PGCareerRepository) GetByID(ctx context.Context, id string) (*domain.Career, error) {
	c, err := scanCareer(r.db.QueryRow(ctx, `SELECT `+careerColumns+` FROM careers WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "career")
	}
	return c, nil
}

func (r *PGCareerRepository) Create(ctx context.Context, c *domain.Career) error {
	err := r.db.QueryRow(ctx, `INSERT INTO careers (id, title, department, location, employment_type, description, open)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`,
		c.ID, c.Title, c.Department, c.Location, c.EmploymentType, c.Description, c.Open).Scan(&c.CreatedAt)
	return mapError(err, "create career")
}

func (r *PGCareerRepository) Update(ctx context.Context, c *domain.Career) error {
	err := r.db.QueryRow(ctx, `UPDATE careers SET title=$2, department=$3, location=$4, employment_type=$5, description=$6, open=$7
		WHERE id=$1 RETURNING created_at`,
		c.ID, c.Title, c.Department, c.Location, c.EmploymentType, c.Description, c.Open).Scan(&c.CreatedAt)
	return mapError(err, "career")
}

func (r *PGCareerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM careers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affected(tag, "career")
}

func (r *PGCareerRepository) CreateApplication(ctx context.Context, a *domain.Application) error {
	err := r.db.QueryRow(ctx, `INSERT INTO applications (id, career_id, name, email, phone, resume_url, cover_letter)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`,
		a.ID, a.CareerID, a.Name, a.Email, a.Phone, a.ResumeURL, a.CoverLetter).Scan(&a.CreatedAt)
	return mapError(err, "create application")
}

func (r *PGCareerRepository) ListApplications(ctx context.Context, careerID string) ([]domain.Application, error) {
	rows, err := r.db.Query(ctx, `SELECT id, career_id, name, email, phone, resume_url, cover_letter, created_at
		FROM applications WHERE career_id=$1 ORDER BY created_at DESC`, careerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Application, 0)
	for rows.Next() {
		var a domain.Application
		if err := rows.Scan(&a.ID, &a.CareerID, &a.Name, &a.Email, &a.Phone, &a.ResumeURL, &a.CoverLetter, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

var _ CareerRepository = (*PGCareerRepository)(nil)
