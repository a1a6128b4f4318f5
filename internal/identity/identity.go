// Package identity verifies bearer tokens and manages accounts in the
// configured identity provider.
package identity

import (
	"context"

	"github.com/Domenick1991/travelbooking/internal/domain"
)

// Principal is the caller behind a verified token.
type Principal struct {
	UID   string
	Email string
	Role  domain.Role
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == domain.RoleAdmin
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// Directory is the account store of the identity provider.
type Directory interface {
	ListIdentities(ctx context.Context) ([]domain.Identity, error)
	SetRole(ctx context.Context, uid string, role domain.Role) error
	DeleteUser(ctx context.Context, uid string) error
}

func roleOrDefault(v any) domain.Role {
	if s, ok := v.(string); ok && domain.Role(s).Valid() {
		return domain.Role(s)
	}
	return domain.RoleUser
}
