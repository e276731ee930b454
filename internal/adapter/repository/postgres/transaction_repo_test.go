package postgres

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitledger/backend/internal/domain"
)

func TestClassifyInsertError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel *domain.Error
	}{
		{
			name:     "external id unique violation",
			err:      &pq.Error{Code: uniqueViolationCode, Constraint: externalIDConstraint},
			sentinel: domain.ErrDuplicateExternalID,
		},
		{
			name:     "participant unique violation",
			err:      &pq.Error{Code: uniqueViolationCode, Constraint: participantConstraint},
			sentinel: domain.ErrParticipantConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyInsertError(tt.err, "failed to insert")

			require.Error(t, got)
			assert.True(t, errors.Is(got, tt.sentinel))
			assert.Contains(t, got.Error(), "failed to insert")
		})
	}
}

func TestClassifyInsertError_UnknownConstraintPassesThrough(t *testing.T) {
	pqErr := &pq.Error{Code: uniqueViolationCode, Constraint: "users_username_key"}

	got := classifyInsertError(pqErr, "failed to insert")

	require.Error(t, got)
	assert.False(t, errors.Is(got, domain.ErrDuplicateExternalID))
	assert.False(t, errors.Is(got, domain.ErrParticipantConflict))

	var unwrapped *pq.Error
	assert.True(t, errors.As(got, &unwrapped))
}

func TestClassifyInsertError_NonPqErrorPassesThrough(t *testing.T) {
	cause := errors.New("driver: bad connection")

	got := classifyInsertError(cause, "failed to commit transaction")

	require.Error(t, got)
	assert.True(t, errors.Is(got, cause))
	assert.False(t, errors.Is(got, domain.ErrDuplicateExternalID))
	assert.False(t, errors.Is(got, domain.ErrParticipantConflict))
}
