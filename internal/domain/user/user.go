package user

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/TQS-Project-OLS/backend-sub001/pkg/auth"
	"github.com/TQS-Project-OLS/backend-sub001/pkg/domain"
)

// User is the aggregate root for a marketplace account.
type User struct {
	id           uuid.UUID
	email        string
	name         string
	passwordHash string
	role         string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a user with a bcrypt-hashed password.
func NewUser(email, name, password, role string) (*User, error) {
	if email == "" {
		return nil, domain.NewValidationError("email is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if len(password) < 8 {
		return nil, domain.NewValidationError("password must be at least 8 characters")
	}
	switch role {
	case auth.RoleRenter, auth.RoleOwner, auth.RoleAdmin:
	default:
		return nil, domain.NewValidationError("invalid role: " + role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		email:        email,
		name:         name,
		passwordHash: string(hash),
		role:         role,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id uuid.UUID, email, name, passwordHash, role string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:           id,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() string         { return u.role }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// CheckPassword verifies the given password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(password)) == nil
}
