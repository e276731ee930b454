package allocator

import (
	"math"
	"math/bits"

	"github.com/google/uuid"

	"github.com/splitledger/backend/internal/domain"
)

// Participant is one (user, share) pair within a single role group.
type Participant struct {
	UserID uuid.UUID
	Share  int64
}

// Allocation is the computed absolute amount for one participant.
type Allocation struct {
	UserID uuid.UUID
	Share  int64
	Amount int64
}

// Distribute splits totalAmount across the participants of one role group
// proportionally to their declared shares:
//
//	amount = floor(share * totalAmount / shareSum)
//
// Integer division truncates toward zero, so the amounts of a group may
// sum to less than totalAmount; they never sum to more. Participants are
// processed in input order and the first allocation that truncates to
// zero aborts the whole distribution with TransactionAmountTooSmallError.
func Distribute(totalAmount int64, participants []Participant) ([]Allocation, error) {
	if totalAmount < 1 {
		return nil, domain.NewInvalidInput("total amount must be a positive integer")
	}

	if len(participants) == 0 {
		return nil, domain.NewInvalidInput("at least one participant is required")
	}

	var shareSum int64
	for _, p := range participants {
		if p.Share < 1 {
			return nil, domain.NewInvalidInput("participant share must be a positive integer")
		}
		if p.Share > math.MaxInt64-shareSum {
			return nil, domain.NewInvalidInput("participant shares are too large")
		}
		shareSum += p.Share
	}

	allocations := make([]Allocation, 0, len(participants))
	for _, p := range participants {
		// share * totalAmount can exceed 64 bits for valid inputs, so the
		// product is carried through a 128-bit intermediate. The quotient
		// always fits: share <= shareSum keeps it at or below totalAmount.
		hi, lo := bits.Mul64(uint64(p.Share), uint64(totalAmount))
		quo, _ := bits.Div64(hi, lo, uint64(shareSum))
		amount := int64(quo)
		if amount == 0 {
			return nil, domain.ErrAmountTooSmall
		}

		allocations = append(allocations, Allocation{
			UserID: p.UserID,
			Share:  p.Share,
			Amount: amount,
		})
	}

	return allocations, nil
}
