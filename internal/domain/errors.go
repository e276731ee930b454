package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrorKind classifies a domain error so transport adapters can map it
// to a response class without inspecting individual codes.
type ErrorKind int

const (
	KindInvalid ErrorKind = iota
	KindNotFound
	KindConflict
	KindInternal
)

// Error is a domain failure with a stable machine-readable code.
// The Code values are part of the API contract and must not change.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors by code, so a constructed error (with a per-entity
// message) still matches its sentinel under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

var (
	// ErrAmountTooSmall is returned when a participant's computed share
	// amount truncates to zero.
	ErrAmountTooSmall = &Error{
		Kind:    KindInvalid,
		Code:    "TransactionAmountTooSmallError",
		Message: "transaction total amount is too small to distribute",
	}

	// ErrDuplicateExternalID signals that a transaction with the same
	// external id already exists. It is recovered internally by the
	// orchestrator and never surfaced to callers.
	ErrDuplicateExternalID = &Error{
		Kind:    KindConflict,
		Code:    "DuplicateExternalIDError",
		Message: "a transaction with this external id already exists",
	}

	// ErrParticipantConflict signals a duplicate (transaction, user, role)
	// participant row.
	ErrParticipantConflict = &Error{
		Kind:    KindInvalid,
		Code:    "InvalidDataError",
		Message: "a user cannot hold the same role twice in one transaction",
	}
)

// NewUserNotFound builds a not-found error for the given user id.
func NewUserNotFound(userID uuid.UUID) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "UserNotFound",
		Message: fmt.Sprintf("user not found with id: %s", userID),
	}
}

// NewInsufficientFunds builds the validation error for a sender whose
// balance does not cover their allocated send amount.
func NewInsufficientFunds(userID uuid.UUID) *Error {
	return &Error{
		Kind:    KindInvalid,
		Code:    "UserHasNotEnoughFundsError",
		Message: fmt.Sprintf("user with id: %s has not enough funds to send", userID),
	}
}

// NewInvalidInput builds a generic bad-input error.
func NewInvalidInput(message string) *Error {
	return &Error{
		Kind:    KindInvalid,
		Code:    "InvalidDataError",
		Message: message,
	}
}

// NewInvalidUUID builds the error for an unparsable uuid in a request.
func NewInvalidUUID(field string) *Error {
	return &Error{
		Kind:    KindInvalid,
		Code:    "InvalidUUIDError",
		Message: fmt.Sprintf("%s is not a valid UUID", field),
	}
}
