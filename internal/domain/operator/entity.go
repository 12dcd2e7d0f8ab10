package operator

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin     = "admin"
	RoleRecruiter = "recruiter"
)

// Operator is a person allowed to sign in to the gateway console.
type Operator struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleRecruiter
}
