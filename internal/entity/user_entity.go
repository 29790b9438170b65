// FILE: internal/entity/user_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type User struct {
	Id    uuid.UUID
	Name  string
	Email string
	Role  UserRole
	// Back-reference to the Active subscription. Written only inside the
	// transaction that changes the subscription it points at.
	CurrentSubscriptionId *uuid.UUID
	CreatedAt             time.Time
	UpdatedAt             time.Time
}
