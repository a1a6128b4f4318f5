package identity

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/repository"
)

// LocalDirectory serves the local provider, where the users table is the
// only account store. Role and deletion changes are applied to the profile
// by the account service; SetRole only checks that the account exists.
type LocalDirectory struct {
	users repository.UserRepository
}

func NewLocalDirectory(users repository.UserRepository) *LocalDirectory {
	return &LocalDirectory{users: users}
}

func (d *LocalDirectory) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	users, err := d.users.List(ctx)
	if err != nil {
		return nil, err
	}
	identities := make([]domain.Identity, 0, len(users))
	for _, u := range users {
		identities = append(identities, domain.Identity{
			UID:         u.ID,
			Email:       u.Email,
			DisplayName: u.Name,
			Phone:       u.Phone,
			PhotoURL:    u.PhotoURL,
			Role:        u.Role,
			CreatedAt:   u.CreatedAt,
		})
	}
	return identities, nil
}

func (d *LocalDirectory) SetRole(ctx context.Context, uid string, _ domain.Role) error {
	_, err := d.users.GetByID(ctx, uid)
	return err
}

func (d *LocalDirectory) DeleteUser(context.Context, string) error {
	return nil
}

var _ Directory = (*LocalDirectory)(nil)
