package repository

import "context"

type WishlistRepository interface {
	PackageIDs(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, packageID string) error
	Remove(ctx context.Context, userID, packageID string) error
}

type PGWishlistRepository struct {
	db DB
}

func NewWishlistRepository(db DB) WishlistRepository {
	return &PGWishlistRepository{db: db}
}

func (r *PGWishlistRepository) PackageIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT package_id FROM wishlist_items WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Add is a no-op when the package is already on the wishlist.
func (r *PGWishlistRepository) Add(ctx context.Context, userID, packageID string) error {
	_, err := r.db.Exec(ctx, `INSERT INTO wishlist_items (user_id, package_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, packageID)
	return err
}

func (r *PGWishlistRepository) Remove(ctx context.Context, userID, packageID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id=$1 AND package_id=$2`, userID, packageID)
	return err
}

var _ WishlistRepository = (*PGWishlistRepository)(nil)
