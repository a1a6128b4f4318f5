package repository

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Upsert(ctx context.Context, user *domain.User) error
	UpdateRole(ctx context.Context, id string, role domain.Role) error
	Delete(ctx context.Context, id string) error
}

type PGUserRepository struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &PGUserRepository{db: db}
}

const userColumns = `id, name, email, phone, address, photo_url, role, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Address, &u.PhotoURL, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PGUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRow(ctx, `INSERT INTO users (id, name, email, phone, address, photo_url, role, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		user.ID, user.Name, user.Email, user.Phone, user.Address, user.PhotoURL, user.Role, user.PasswordHash).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	return mapError(err, "create user")
}

func (r *PGUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, "user")
	}
	return u, nil
}

func (r *PGUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email))
	if err != nil {
		return nil, mapError(err, "user")
	}
	return u, nil
}

func (r *PGUserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Upsert writes profile fields. Role and password hash of an existing row are
// left untouched.
func (r *PGUserRepository) Upsert(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRow(ctx, `INSERT INTO users (id, name, email, phone, address, photo_url, role)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			photo_url = EXCLUDED.photo_url,
			updated_at = now()
		RETURNING role, created_at, updated_at`,
		user.ID, user.Name, user.Email, user.Phone, user.Address, user.PhotoURL, user.Role).
		Scan(&user.Role, &user.CreatedAt, &user.UpdatedAt)
	return mapError(err, "upsert user")
}

func (r *PGUserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET role=$1, updated_at=now() WHERE id=$2`, role, id)
	if err != nil {
		return err
	}
	return affected(tag, "user")
}

func (r *PGUserRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return affected(tag, "user")
}

var _ UserRepository = (*PGUserRepository)(nil)
