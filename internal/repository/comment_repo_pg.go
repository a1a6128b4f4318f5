package repository

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByBlog(ctx context.Context, blogID string) ([]domain.Comment, error)
	Delete(ctx context.Context, id string) error
}

type PGCommentRepository struct {
	db DB
}

func NewCommentRepository(db DB) CommentRepository {
	return &PGCommentRepository{db: db}
}

const commentColumns = `id, blog_id, user_id, user_name, content, created_at`

func scanComment(row interface{ Scan(...any) error }) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.BlogID, &c.UserID, &c.UserName, &c.Content, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGCommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	err := r.db.QueryRow(ctx, `INSERT INTO comments (id, blog_id, user_id, user_name, content)
		VALUES ($1, $2, $3, $4, $5) RETURNING created_at`,
		c.ID, c.BlogID, c.UserID, c.UserName, c.Content).Scan(&c.CreatedAt)
	return mapError(err, "create comment")
}

func (r *PGCommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	c, err := scanComment(r.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "comment")
	}
	return c, nil
}

func (r *PGCommentRepository) ListByBlog(ctx context.Context, blogID string) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+commentColumns+` FROM comments WHERE blog_id=$1 ORDER BY created_at`, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (r *PGCommentRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affected(tag, "comment")
}

var _ CommentRepository = (*PGCommentRepository)(nil)
