package repository

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p *domain.Product) error
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id string) error
}

type PGProductRepository struct {
	db DB
}

func NewProductRepository(db DB) ProductRepository {
	return &PGProductRepository{db: db}
}

const productColumns = `id, name, description, price, image_url, stock, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PGProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PGProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "product")
	}
	return p, nil
}

func (r *PGProductRepository) Create(ctx context.Context, p *domain.Product) error {
	err := r.db.QueryRow(ctx, `INSERT INTO products (id, name, description, price, image_url, stock)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.Stock).Scan(&p.CreatedAt, &p.UpdatedAt)
	return mapError(err, "create product")
}

func (r *PGProductRepository) Update(ctx context.Context, p *domain.Product) error {
	err := r.db.QueryRow(ctx, `UPDATE products SET name=$2, description=$3, price=$4, image_url=$5, stock=$6, updated_at=now()
		WHERE id=$1 RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.Stock).Scan(&p.CreatedAt, &p.UpdatedAt)
	return mapError(err, "product")
}

func (r *PGProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affected(tag, "product")
}

var _ ProductRepository = (*PGProductRepository)(nil)
