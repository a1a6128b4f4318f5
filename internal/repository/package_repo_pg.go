package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type PackageRepository interface {
	List(ctx context.Context, filter domain.PackageFilter) ([]domain.Package, int, error)
	GetByID(ctx context.Context, id string) (*domain.Package, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Package, error)
	Create(ctx context.Context, pkg *domain.Package) error
	Update(ctx context.Context, pkg *domain.Package) error
	Delete(ctx context.Context, id string) error
}

type PGPackageRepository struct {
	db DB
}

func NewPackageRepository(db DB) PackageRepository {
	return &PGPackageRepository{db: db}
}

const packageColumns = `id, title, description, location, duration, category, regular_price, sale_price, adult_price, child_price, couple_price, gallery, status, featured, created_at, updated_at`

func scanPackage(row interface{ Scan(...any) error }) (*domain.Package, error) {
	var p domain.Package
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Location, &p.Duration, &p.Category,
		&p.RegularPrice, &p.SalePrice, &p.AdultPrice, &p.ChildPrice, &p.CouplePrice,
		&p.Gallery, &p.Status, &p.Featured, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	return &p, nil
}

func packageWhere(filter domain.PackageFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR location ILIKE $%d)", len(args), len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of packages plus the total number of matches.
func (r *PGPackageRepository) List(ctx context.Context, filter domain.PackageFilter) ([]domain.Package, int, error) {
	filter = filter.Normalize()
	where, args := packageWhere(filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM packages`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`SELECT %s FROM packages%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		packageColumns, where, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	packages := make([]domain.Package, 0, filter.Limit)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, 0, err
		}
		packages = append(packages, *p)
	}
	return packages, total, rows.Err()
}

func (r *PGPackageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	p, err := scanPackage(r.db.QueryRow(ctx, `SELECT `+packageColumns+` FROM packages WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "package")
	}
	return p, nil
}

func (r *PGPackageRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Package, error) {
	packages := make([]domain.Package, 0, len(ids))
	if len(ids) == 0 {
		return packages, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+packageColumns+` FROM packages WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *p)
	}
	return packages, rows.Err()
}

func (r *PGPackageRepository) Create(ctx context.Context, p *domain.Package) error {
	err := r.db.QueryRow(ctx, `INSERT INTO packages (id, title, description, location, duration, category,
			regular_price, sale_price, adult_price, child_price, couple_price, gallery, status, featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`,
		p.ID, p.Title, p.Description, p.Location, p.Duration, p.Category,
		p.RegularPrice, p.SalePrice, p.AdultPrice, p.ChildPrice, p.CouplePrice, p.Gallery, p.Status, p.Featured).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return mapError(err, "create package")
}

func (r *PGPackageRepository) Update(ctx context.Context, p *domain.Package) error {
	err := r.db.QueryRow(ctx, `UPDATE packages SET title=$2, description=$3, location=$4, duration=$5, category=$6,
			regular_price=$7, sale_price=$8, adult_price=$9, child_price=$10, couple_price=$11,
			gallery=$12, status=$13, featured=$14, updated_at=now()
		WHERE id=$1
		RETURNING created_at, updated_at`,
		p.ID, p.Title, p.Description, p.Location, p.Duration, p.Category,
		p.RegularPrice, p.SalePrice, p.AdultPrice, p.ChildPrice, p.CouplePrice, p.Gallery, p.Status, p.Featured).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	return mapError(err, "package")
}

func (r *PGPackageRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM packages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affected(tag, "package")
}

var _ PackageRepository = (*PGPackageRepository)(nil)
