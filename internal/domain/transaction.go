package domain

import (
	"time"

	"github.com/google/uuid"
)

// ParticipantRole represents the side of a transaction a user is on
type ParticipantRole string

const (
	RoleSender   ParticipantRole = "SENDER"
	RoleReceiver ParticipantRole = "RECEIVER"
)

// Valid reports whether the role is one of the known values
func (r ParticipantRole) Valid() bool {
	return r == RoleSender || r == RoleReceiver
}

// Transaction represents one money-movement event between users.
// ExternalID is the caller-supplied idempotency key, unique across all
// transactions. A transaction is never mutated or deleted once created.
type Transaction struct {
	ID           uuid.UUID
	ExternalID   string
	TotalAmount  int64 // smallest currency unit (cents)
	CreatedAt    time.Time
	Participants []Participant
}

// Participant represents one user's role in one transaction.
// Unique on (TransactionID, UserID, Role): a user cannot hold the same
// role twice in one transaction.
type Participant struct {
	ID            uuid.UUID
	TransactionID uuid.UUID
	UserID        uuid.UUID
	Role          ParticipantRole
	Share         int64 // relative weight, >= 1
	ShareAmount   int64 // absolute amount in the same unit as TotalAmount
	Position      int   // creation order within the transaction, starting at 0
}

// ParticipantUserIDs returns the deduplicated ids of every user involved
// in the transaction, in first-appearance order. This is the set whose
// cached balances must be invalidated after a commit.
func (t *Transaction) ParticipantUserIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(t.Participants))
	ids := make([]uuid.UUID, 0, len(t.Participants))

	for _, p := range t.Participants {
		if _, ok := seen[p.UserID]; ok {
			continue
		}
		seen[p.UserID] = struct{}{}
		ids = append(ids, p.UserID)
	}

	return ids
}

// ParticipantsByRole returns the participants holding the given role,
// preserving stored order.
func (t *Transaction) ParticipantsByRole(role ParticipantRole) []Participant {
	out := make([]Participant, 0, len(t.Participants))
	for _, p := range t.Participants {
		if p.Role == role {
			out = append(out, p)
		}
	}

	return out
}
