package repository

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type ContactRepository interface {
	Create(ctx context.Context, m *domain.ContactMessage) error
	List(ctx context.Context) ([]domain.ContactMessage, error)
	Delete(ctx context.Context, id string) error
}

type PGContactRepository struct {
	db DB
}

func NewContactRepository(db DB) ContactRepository {
	return &PGContactRepository{db: db}
}

func (r *PGContactRepository) Create(ctx context.Context, m *domain.ContactMessage) error {
	err := r.db.QueryRow(ctx, `INSERT INTO contact_messages (id, name, email, subject, message)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		m.ID, m.Name, m.Email, m.Subject, m.Message).Scan(&m.CreatedAt)
	return mapError(err, "create contact message")
}

func (r *PGContactRepository) List(ctx context.Context) ([]domain.ContactMessage, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, email, subject, message, created_at FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ContactMessage, 0)
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PGContactRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contact_messages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affected(tag, "contact message")
}

var _ ContactRepository = (*PGContactRepository)(nil)
