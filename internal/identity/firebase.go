package identity

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/domain"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Firebase verifies ID tokens and manages users through the Firebase Admin SDK.
type Firebase struct {
	client *auth.Client
}

func NewFirebase(ctx context.Context, cfg config.FirebaseConfig) (*Firebase, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	return &Firebase{client: client}, nil
}

func (f *Firebase) Verify(ctx context.Context, raw string) (*Principal, error) {
	token, err := f.client.VerifyIDToken(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return principalFromToken(token), nil
}

func principalFromToken(token *auth.Token) *Principal {
	email, _ := token.Claims["email"].(string)
	return &Principal{UID: token.UID, Email: email, Role: roleOrDefault(token.Claims["role"])}
}

func (f *Firebase) ListIdentities(ctx context.Context) ([]domain.Identity, error) {
	var identities []domain.Identity
	iter := f.client.Users(ctx, "")
	for {
		user, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list firebase users: %w", err)
		}
		identities = append(identities, identityFromRecord(user.UserRecord))
	}
	return identities, nil
}

func identityFromRecord(u *auth.UserRecord) domain.Identity {
	id := domain.Identity{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.PhoneNumber,
		PhotoURL:    u.PhotoURL,
		Role:        roleOrDefault(u.CustomClaims["role"]),
	}
	if u.UserMetadata != nil {
		id.CreatedAt = millis(u.UserMetadata.CreationTimestamp)
		id.LastSignIn = millis(u.UserMetadata.LastLogInTimestamp)
	}
	return id
}

func millis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// SetRole replaces the custom claims of uid with {"role": role}.
func (f *Firebase) SetRole(ctx context.Context, uid string, role domain.Role) error {
	if err := f.client.SetCustomUserClaims(ctx, uid, map[string]interface{}{"role": string(role)}); err != nil {
		if auth.IsUserNotFound(err) {
			return fmt.Errorf("user %s: %w", uid, domain.ErrNotFound)
		}
		return fmt.Errorf("set role: %w", err)
	}
	return nil
}

func (f *Firebase) DeleteUser(ctx context.Context, uid string) error {
	if err := f.client.DeleteUser(ctx, uid); err != nil {
		if auth.IsUserNotFound(err) {
			return fmt.Errorf("user %s: %w", uid, domain.ErrNotFound)
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

var (
	_ TokenVerifier = (*Firebase)(nil)
	_ Directory     = (*Firebase)(nil)
)
