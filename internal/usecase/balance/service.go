package balance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/splitledger/backend/internal/domain"
)

// Service derives per-user net balances from the ledger, using the
// balance cache as a read-through layer.
type Service struct {
	Users        domain.UserRepository
	Transactions domain.TransactionRepository
	Cache        domain.BalanceCache
	Logger       *zap.Logger
}

// NewService creates a new balance Service instance
func NewService(
	users domain.UserRepository,
	transactions domain.TransactionRepository,
	cache domain.BalanceCache,
	logger *zap.Logger,
) *Service {
	return &Service{
		Users:        users,
		Transactions: transactions,
		Cache:        cache,
		Logger:       logger,
	}
}

// Get returns the user's net balance: total received minus total sent.
// The result may be negative. A cached value is served when present;
// otherwise the balance is recomputed from the ledger and written back.
// Cache failures degrade to recomputation and are never surfaced.
//
// There is no locking between a cache miss and the write-back: concurrent
// misses may both recompute and both write. That race is harmless because
// the computation is deterministic for the committed rows at query time.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (int64, error) {
	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		return 0, err
	}

	cached, ok, err := s.Cache.Get(ctx, userID)
	if err != nil {
		s.Logger.Warn("balance cache read failed, recomputing from store",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	} else if ok {
		return cached, nil
	}

	received, err := s.Transactions.SumShareAmount(ctx, userID, domain.RoleReceiver)
	if err != nil {
		return 0, fmt.Errorf("summing received amount: %w", err)
	}

	sent, err := s.Transactions.SumShareAmount(ctx, userID, domain.RoleSender)
	if err != nil {
		return 0, fmt.Errorf("summing sent amount: %w", err)
	}

	balance := received - sent

	if err := s.Cache.Set(ctx, userID, balance); err != nil {
		s.Logger.Warn("balance cache write-back failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	return balance, nil
}

// ValidateAmountToSend checks that the user's balance covers the given
// amount, returning an InsufficientFunds domain error when it does not.
// The balance read may be stale under concurrent creation; this is a
// best-effort check, not a hard consistency guarantee.
func (s *Service) ValidateAmountToSend(ctx context.Context, userID uuid.UUID, amount int64) error {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if current < amount {
		return domain.NewInsufficientFunds(userID)
	}

	return nil
}
