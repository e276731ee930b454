package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/splitledger/backend/internal/domain"
)

// Service handles user lookup operations
type Service struct {
	Users domain.UserRepository
}

// NewService creates a new user Service instance
func NewService(users domain.UserRepository) *Service {
	return &Service{Users: users}
}

// GetByID returns the user with the given id, or a UserNotFound domain
// error when no such user exists.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.Users.GetByID(ctx, id)
}
