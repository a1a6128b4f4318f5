package repository

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type BlogRepository interface {
	List(ctx context.Context, publishedOnly bool) ([]domain.Blog, error)
	GetByID(ctx context.Context, id string) (*domain.Blog, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Blog, error)
	Create(ctx context.Context, blog *domain.Blog) error
	Update(ctx context.Context, blog *domain.Blog) error
	Delete(ctx context.Context, id string) error
}

type PGBlogRepository struct {
	db DB
}

func NewBlogRepository(db DB) BlogRepository {
	return &PGBlogRepository{db: db}
}

const blogColumns = `id, title, slug, content, excerpt, cover_image, author, tags, published, created_at, updated_at`

func scanBlog(row interface{ Scan(...any) error }) (*domain.Blog, error) {
	var b domain.Blog
	if err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.Content, &b.Excerpt, &b.CoverImage, &b.Author, &b.Tags, &b.Published, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if b.Tags == nil {
		b.Tags = []string{}
	}
	return &b, nil
}

func (r *PGBlogRepository) List(ctx context.Context, publishedOnly bool) ([]domain.Blog, error) {
	rows, err := r.db.Query(ctx, `SELECT `+blogColumns+` FROM blogs WHERE (NOT $1 OR published) ORDER BY created_at DESC`, publishedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blogs := make([]domain.Blog, 0)
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, *b)
	}
	return blogs, rows.Err()
}

func (r *PGBlogRepository) GetByID(ctx context.Context, id string) (*domain.Blog, error) {
	b, err := scanBlog(r.db.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "blog")
	}
	return b, nil
}

func (r *PGBlogRepository) GetBySlug(ctx context.Context, slug string) (*domain.Blog, error) {
	b, err := scanBlog(r.db.QueryRow(ctx, `SELECT `+blogColumns+` FROM blogs WHERE slug=$1`, slug))
	if err != nil {
		return nil, mapError(err, "blog")
	}
	return b, nil
}

func (r *PGBlogRepository) Create(ctx context.Context, b *domain.Blog) error {
	err := r.db.QueryRow(ctx, `INSERT INTO blogs (id, title, slug, content, excerpt, cover_image, author, tags, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		b.ID, b.Title, b.Slug, b.Content, b.Excerpt, b.CoverImage, b.Author, b.Tags, b.Published).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	return mapError(err, "create blog")
}

func (r *PGBlogRepository) Update(ctx context.Context, b *domain.Blog) error {
	err := r.db.QueryRow(ctx, `UPDATE blogs SET title=$2, slug=$3, content=$4, excerpt=$5, cover_image=$6, author=$7, tags=$8, published=$9, updated_at=now()
		WHERE id=$1 RETURNING created_at, updated_at`,
		b.ID, b.Title, b.Slug, b.Content, b.Excerpt, b.CoverImage, b.Author, b.Tags, b.Published).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	return mapError(err, "blog")
}

func (r *PGBlogRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affected(tag, "blog")
}

var _ BlogRepository = (*PGBlogRepository)(nil)
