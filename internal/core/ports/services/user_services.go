package services

import (
	"context"

	"github.com/comercioapp/ledger_backend/internal/core/domain"
)

// UserSvcFacade defines authentication operations for operator users.
type UserSvcFacade interface {
	// Authenticate verifies a username/password pair and returns the user.
	// Returns apperrors.ErrNotFound for unknown users or wrong passwords.
	Authenticate(ctx context.Context, username string, password string) (*domain.User, error)

	// GetUserByID retrieves a user by its unique identifier.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// EnsureAdminUser creates the bootstrap admin user if it does not exist.
	EnsureAdminUser(ctx context.Context, username string, password string) error
}
