package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Domenick1991/travelbooking/internal/domain"
	"github.com/Domenick1991/travelbooking/internal/identity"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type AccountUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Me(ctx context.Context, principal *identity.Principal) (*domain.User, error)
	UpdateProfile(ctx context.Context, principal *identity.Principal, input ProfileInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.UserView, error)
	GetUser(ctx context.Context, uid string) (*domain.UserView, error)
	SetRole(ctx context.Context, uid string, role domain.Role) error
	DeleteUser(ctx context.Context, uid string) error
}

// TokenIssuer is nil when tokens come from an external identity provider.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

type AccountService struct {
	users     repository.UserRepository
	directory identity.Directory
	issuer    TokenIssuer
	logger    *zerolog.Logger
}

type AccountServiceOption func(*AccountService)

func WithTokenIssuer(issuer TokenIssuer) AccountServiceOption {
	return func(s *AccountService) {
		s.issuer = issuer
	}
}

func WithLogger(logger *zerolog.Logger) AccountServiceOption {
	return func(s *AccountService) {
		s.logger = logger
	}
}

func NewAccountService(users repository.UserRepository, directory identity.Directory, opts ...AccountServiceOption) *AccountService {
	nop := zerolog.Nop()
	s := &AccountService{users: users, directory: directory, logger: &nop}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type ProfileInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	PhotoURL string `json:"photoUrl"`
}

var errExternalProvider = fmt.Errorf("%w: login is handled by the identity provider", domain.ErrInvalidInput)

func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if s.issuer == nil {
		return nil, errExternalProvider
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	if len(input.Password) < identity.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, identity.MinPasswordLength)
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("%w: user already exists", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := identity.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		Phone:        strings.TrimSpace(input.Phone),
		Role:         domain.RoleUser,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: user already exists", domain.ErrConflict)
		}
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *AccountService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if s.issuer == nil {
		return nil, errExternalProvider
	}
	invalid := fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if !identity.CheckPassword(user.PasswordHash, input.Password) {
		return nil, invalid
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

// Me returns the stored profile, or a bare profile built from the token when
// the caller has not saved one yet.
func (s *AccountService) Me(ctx context.Context, principal *identity.Principal) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, principal.UID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return &domain.User{ID: principal.UID, Email: principal.Email, Role: principal.Role}, nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, principal *identity.Principal, input ProfileInput) (*domain.User, error) {
	user := &domain.User{
		ID:       principal.UID,
		Name:     strings.TrimSpace(input.Name),
		Email:    principal.Email,
		Phone:    strings.TrimSpace(input.Phone),
		Address:  strings.TrimSpace(input.Address),
		PhotoURL: strings.TrimSpace(input.PhotoURL),
		Role:     principal.Role,
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if user.Email == "" {
		current, err := s.users.GetByID(ctx, principal.UID)
		if err != nil {
			return nil, err
		}
		user.Email = current.Email
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AccountService) ListUsers(ctx context.Context) ([]domain.UserView, error) {
	identities, err := s.directory.ListIdentities(ctx)
	if err != nil {
		return nil, err
	}
	profiles, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	return MergeUsers(identities, profiles), nil
}

func (s *AccountService) GetUser(ctx context.Context, uid string) (*domain.UserView, error) {
	views, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range views {
		if views[i].UID == uid {
			return &views[i], nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", uid, domain.ErrNotFound)
}

func (s *AccountService) SetRole(ctx context.Context, uid string, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	if err := s.directory.SetRole(ctx, uid, role); err != nil {
		return err
	}
	err := s.users.UpdateRole(ctx, uid, role)
	if errors.Is(err, domain.ErrNotFound) {
		// identity without a stored profile
		return nil
	}
	return err
}

func (s *AccountService) DeleteUser(ctx context.Context, uid string) error {
	if err := s.directory.DeleteUser(ctx, uid); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return s.users.Delete(ctx, uid)
}

const notAvailable = "N/A"

// MergeUsers joins identities with stored profiles by UID. Each field comes
// from the profile, then the identity, then "N/A". Profiles with no identity
// follow the identities.
func MergeUsers(identities []domain.Identity, profiles []domain.User) []domain.UserView {
	byID := make(map[string]domain.User, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	views := make([]domain.UserView, 0, len(identities)+len(profiles))
	seen := make(map[string]bool, len(identities))
	for _, id := range identities {
		p := byID[id.UID]
		seen[id.UID] = true
		views = append(views, domain.UserView{
			UID:        id.UID,
			Name:       pick(p.Name, id.DisplayName),
			Email:      pick(p.Email, id.Email),
			Phone:      pick(p.Phone, id.Phone),
			Address:    pick(p.Address, ""),
			PhotoURL:   pick(p.PhotoURL, id.PhotoURL),
			Role:       pick(string(p.Role), string(id.Role)),
			CreatedAt:  pick(formatTime(p.CreatedAt), formatTime(id.CreatedAt)),
			LastSignIn: pick("", formatTime(id.LastSignIn)),
		})
	}

	for _, p := range profiles {
		if seen[p.ID] {
			continue
		}
		views = append(views, domain.UserView{
			UID:        p.ID,
			Name:       pick(p.Name, ""),
			Email:      pick(p.Email, ""),
			Phone:      pick(p.Phone, ""),
			Address:    pick(p.Address, ""),
			PhotoURL:   pick(p.PhotoURL, ""),
			Role:       pick(string(p.Role), ""),
			CreatedAt:  pick(formatTime(p.CreatedAt), ""),
			LastSignIn: notAvailable,
		})
	}
	return views
}

func pick(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	if fallback != "" {
		return fallback
	}
	return notAvailable
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

var _ AccountUseCase = (*AccountService)(nil)
