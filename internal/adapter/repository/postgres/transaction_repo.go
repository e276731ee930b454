package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/splitledger/backend/internal/domain"
)

const (
	uniqueViolationCode = "23505"

	externalIDConstraint  = "transactions_external_id_key"
	participantConstraint = "transaction_participant_unique"
)

// transactionRepository implements domain.TransactionRepository
type transactionRepository struct {
	db *DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *DB) domain.TransactionRepository {
	return &transactionRepository{db: db}
}

// GetByExternalID retrieves a transaction and its participants by external id.
// Returns (nil, nil) when no transaction matches.
func (r *transactionRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.Transaction, error) {
	query := `
		SELECT id, external_id, total_amount, created_at
		FROM transactions
		WHERE external_id = $1
	`

	var tx domain.Transaction
	err := r.db.QueryRowContext(ctx, query, externalID).Scan(
		&tx.ID,
		&tx.ExternalID,
		&tx.TotalAmount,
		&tx.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction by external id: %w", err)
	}

	participants, err := r.loadParticipants(ctx, tx.ID)
	if err != nil {
		return nil, err
	}
	tx.Participants = participants

	return &tx, nil
}

func (r *transactionRepository) loadParticipants(ctx context.Context, transactionID uuid.UUID) ([]domain.Participant, error) {
	query := `
		SELECT id, transaction_id, user_id, role, share, share_amount, position
		FROM transaction_participants
		WHERE transaction_id = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}
	defer rows.Close()

	var participants []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(
			&p.ID,
			&p.TransactionID,
			&p.UserID,
			&p.Role,
			&p.Share,
			&p.ShareAmount,
			&p.Position,
		); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

// CreateWithParticipants inserts the transaction row and all participant
// rows in one database transaction. A unique violation on external_id is
// mapped to ErrDuplicateExternalID so the caller can recover the race by
// re-fetching; a violation of (transaction, user, role) uniqueness is
// mapped to ErrParticipantConflict.
func (r *transactionRepository) CreateWithParticipants(ctx context.Context, tx *domain.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	insertTxQuery := `
		INSERT INTO transactions (id, external_id, total_amount, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err = dbTx.ExecContext(ctx, insertTxQuery,
		tx.ID,
		tx.ExternalID,
		tx.TotalAmount,
		tx.CreatedAt,
	)
	if err != nil {
		return classifyInsertError(err, "failed to insert transaction")
	}

	insertParticipantQuery := `
		INSERT INTO transaction_participants (id, transaction_id, user_id, role, share, share_amount, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, p := range tx.Participants {
		_, err = dbTx.ExecContext(ctx, insertParticipantQuery,
			p.ID,
			p.TransactionID,
			p.UserID,
			string(p.Role),
			p.Share,
			p.ShareAmount,
			p.Position,
		)
		if err != nil {
			return classifyInsertError(err, "failed to insert participant")
		}
	}

	if err := dbTx.Commit(); err != nil {
		return classifyInsertError(err, "failed to commit transaction")
	}

	return nil
}

// SumShareAmount aggregates share_amount over the user's rows in the
// given role. COALESCE keeps the result at 0 when no rows match.
func (r *transactionRepository) SumShareAmount(ctx context.Context, userID uuid.UUID, role domain.ParticipantRole) (int64, error) {
	query := `
		SELECT COALESCE(SUM(share_amount), 0)
		FROM transaction_participants
		WHERE user_id = $1 AND role = $2
	`

	var total int64
	if err := r.db.QueryRowContext(ctx, query, userID, string(role)).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum share amounts: %w", err)
	}

	return total, nil
}

func classifyInsertError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		switch pqErr.Constraint {
		case externalIDConstraint:
			return fmt.Errorf("%s: %w", msg, domain.ErrDuplicateExternalID)
		case participantConstraint:
			return fmt.Errorf("%s: %w", msg, domain.ErrParticipantConflict)
		}
	}

	return fmt.Errorf("%s: %w", msg, err)
}
