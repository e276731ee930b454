package domain

import (
	"context"

	"github.com/google/uuid"
)

// TransactionRepository defines the interface for transaction persistence operations
type TransactionRepository interface {
	// GetByExternalID retrieves a transaction (with its participants) by
	// its external idempotency key. Returns (nil, nil) when no transaction
	// matches; a miss is not an error.
	GetByExternalID(ctx context.Context, externalID string) (*Transaction, error)

	// CreateWithParticipants inserts the transaction row and all of its
	// participant rows as a single atomic unit. Returns an error wrapping
	// ErrDuplicateExternalID when the external id is already taken, or
	// ErrParticipantConflict when a (transaction, user, role) pair repeats.
	CreateWithParticipants(ctx context.Context, tx *Transaction) error

	// SumShareAmount aggregates share_amount over all participant rows
	// matching the user and role. Returns 0 when no rows match.
	SumShareAmount(ctx context.Context, userID uuid.UUID, role ParticipantRole) (int64, error)
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	// GetByID retrieves a user by id. Returns an error wrapping a
	// UserNotFound domain error when the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// Create creates a new user
	Create(ctx context.Context, user *User) error
}

// BalanceCache defines the interface for the per-user balance cache.
// A cached value of exactly 0 is distinguishable from "absent": the
// boolean return of Get is the only presence signal.
type BalanceCache interface {
	// Get returns the cached balance for the user and whether a value
	// was present.
	Get(ctx context.Context, userID uuid.UUID) (int64, bool, error)

	// Set stores the balance for the user.
	Set(ctx context.Context, userID uuid.UUID, balance int64) error

	// Invalidate removes the cached balances for all given users. Absent
	// ids, duplicates, and an empty slice are all no-ops, not errors.
	Invalidate(ctx context.Context, userIDs []uuid.UUID) error
}
