package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is the stored profile. For the firebase provider ID is the Firebase UID.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	PhotoURL     string    `json:"photoUrl"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Identity is an account as the identity provider sees it.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	Phone       string
	PhotoURL    string
	Role        Role
	CreatedAt   time.Time
	LastSignIn  time.Time
}

// UserView is the merged admin view of an identity and its profile.
type UserView struct {
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	PhotoURL   string `json:"photoUrl"`
	Role       string `json:"role"`
	CreatedAt  string `json:"createdAt"`
	LastSignIn string `json:"lastSignIn"`
}
