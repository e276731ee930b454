package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a long-lived external identity. This service only references
// users by id; registration and authentication live elsewhere.
type User struct {
	ID        uuid.UUID
	Username  string
	CreatedAt time.Time
}
