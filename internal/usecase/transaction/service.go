package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/splitledger/backend/internal/domain"
	"github.com/splitledger/backend/internal/usecase/allocator"
	"github.com/splitledger/backend/internal/usecase/balance"
	"github.com/splitledger/backend/internal/usecase/user"
)

// ParticipantInput is one (user, share) pair from the creation request.
type ParticipantInput struct {
	UserID uuid.UUID
	Share  int64
}

// CreateInput represents the validated input for creating a transaction
type CreateInput struct {
	ExternalID  string
	TotalAmount int64
	Senders     []ParticipantInput
	Receivers   []ParticipantInput
}

// Service orchestrates transaction creation: idempotent lookup, share
// allocation, funds validation, atomic persistence, cache invalidation.
type Service struct {
	Transactions domain.TransactionRepository
	Users        *user.Service
	Balance      *balance.Service
	Cache        domain.BalanceCache
	Logger       *zap.Logger
}

// NewService creates a new transaction Service instance
func NewService(
	transactions domain.TransactionRepository,
	users *user.Service,
	bal *balance.Service,
	cache domain.BalanceCache,
	logger *zap.Logger,
) *Service {
	return &Service{
		Transactions: transactions,
		Users:        users,
		Balance:      bal,
		Cache:        cache,
		Logger:       logger,
	}
}

// Create creates the transaction described by input, or returns the
// previously stored transaction when the external id was already used.
// A replay is returned as-is: the new payload is not compared against
// the stored one.
//
// All validation (user existence, zero allocations, sender funds) runs
// before the atomic write, so a failure leaves no partial state. Two
// concurrent requests with the same external id may both pass the
// initial lookup; the store's uniqueness constraint rejects the loser,
// which is recovered here by re-fetching the winner's row.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.Transactions.GetByExternalID(ctx, input.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("idempotency lookup: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	receivers, err := s.allocate(ctx, input.TotalAmount, input.Receivers, domain.RoleReceiver)
	if err != nil {
		return nil, err
	}

	senders, err := s.allocate(ctx, input.TotalAmount, input.Senders, domain.RoleSender)
	if err != nil {
		return nil, err
	}

	tx := s.buildTransaction(input, senders, receivers)

	if err := s.Transactions.CreateWithParticipants(ctx, tx); err != nil {
		if errors.Is(err, domain.ErrDuplicateExternalID) {
			// Lost a creation race; the stored row is the outcome.
			return s.refetch(ctx, input.ExternalID)
		}
		return nil, err
	}

	if err := s.Cache.Invalidate(ctx, tx.ParticipantUserIDs()); err != nil {
		// The transaction is committed; a stale cache entry is a
		// tolerated transient inconsistency.
		s.Logger.Warn("balance cache invalidation failed after commit",
			zap.String("external_id", tx.ExternalID),
			zap.Error(err),
		)
	}

	return tx, nil
}

// allocate distributes the total over one role group and validates every
// participant: the user must exist, and senders must hold enough balance
// to cover their allocated amount.
func (s *Service) allocate(
	ctx context.Context,
	totalAmount int64,
	participants []ParticipantInput,
	role domain.ParticipantRole,
) ([]allocator.Allocation, error) {
	group := make([]allocator.Participant, 0, len(participants))
	for _, p := range participants {
		if _, err := s.Users.GetByID(ctx, p.UserID); err != nil {
			return nil, err
		}
		group = append(group, allocator.Participant{UserID: p.UserID, Share: p.Share})
	}

	allocations, err := allocator.Distribute(totalAmount, group)
	if err != nil {
		return nil, err
	}

	if role == domain.RoleSender {
		for _, a := range allocations {
			if err := s.Balance.ValidateAmountToSend(ctx, a.UserID, a.Amount); err != nil {
				return nil, err
			}
		}
	}

	return allocations, nil
}

func (s *Service) buildTransaction(
	input CreateInput,
	senders []allocator.Allocation,
	receivers []allocator.Allocation,
) *domain.Transaction {
	txID := uuid.New()

	// Positions record request order so a replayed creation echoes its
	// participants exactly as the first response did.
	participants := make([]domain.Participant, 0, len(senders)+len(receivers))
	for _, a := range senders {
		participants = append(participants, domain.Participant{
			ID:            uuid.New(),
			TransactionID: txID,
			UserID:        a.UserID,
			Role:          domain.RoleSender,
			Share:         a.Share,
			ShareAmount:   a.Amount,
			Position:      len(participants),
		})
	}
	for _, a := range receivers {
		participants = append(participants, domain.Participant{
			ID:            uuid.New(),
			TransactionID: txID,
			UserID:        a.UserID,
			Role:          domain.RoleReceiver,
			Share:         a.Share,
			ShareAmount:   a.Amount,
			Position:      len(participants),
		})
	}

	return &domain.Transaction{
		ID:           txID,
		ExternalID:   input.ExternalID,
		TotalAmount:  input.TotalAmount,
		CreatedAt:    time.Now().UTC(),
		Participants: participants,
	}
}

func (s *Service) refetch(ctx context.Context, externalID string) (*domain.Transaction, error) {
	stored, err := s.Transactions.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("refetching after duplicate external id: %w", err)
	}
	if stored == nil {
		return nil, fmt.Errorf("transaction %q missing after duplicate external id", externalID)
	}

	return stored, nil
}

func (in CreateInput) validate() error {
	if in.ExternalID == "" || len(in.ExternalID) > 100 {
		return domain.NewInvalidInput("transaction_id must be between 1 and 100 characters")
	}
	if in.TotalAmount < 1 {
		return domain.NewInvalidInput("total_amount must be a positive integer")
	}
	if len(in.Senders) == 0 {
		return domain.NewInvalidInput("at least one sender is required")
	}
	if len(in.Receivers) == 0 {
		return domain.NewInvalidInput("at least one receiver is required")
	}

	return nil
}
