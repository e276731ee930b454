package seeder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitledger/backend/internal/domain"
)

// Fixed UUIDs for the demo users so local environments and smoke tests
// can address them without a lookup step.
var (
	DemoAlice = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	DemoBob   = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	DemoCarol = uuid.MustParse("00000000-0000-0000-0000-000000000003")
)

// UserSeeder ensures a set of demo users exists. It is only wired in
// when seeding is enabled in the configuration; production environments
// get their users from the external registration service.
type UserSeeder struct {
	repo domain.UserRepository
}

// NewUserSeeder creates a new UserSeeder instance
func NewUserSeeder(repo domain.UserRepository) *UserSeeder {
	return &UserSeeder{repo: repo}
}

// Seed creates every missing demo user. Existing users are left untouched.
func (s *UserSeeder) Seed(ctx context.Context) error {
	demoUsers := []domain.User{
		{ID: DemoAlice, Username: "alice"},
		{ID: DemoBob, Username: "bob"},
		{ID: DemoCarol, Username: "carol"},
	}

	for _, u := range demoUsers {
		_, err := s.repo.GetByID(ctx, u.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.NewUserNotFound(u.ID)) {
			return fmt.Errorf("checking demo user %s: %w", u.Username, err)
		}

		u.CreatedAt = time.Now().UTC()
		if err := s.repo.Create(ctx, &u); err != nil {
			return fmt.Errorf("creating demo user %s: %w", u.Username, err)
		}
	}

	return nil
}
