package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Entry records one mutating call an operator made against the upstream.
type Entry struct {
	ID         int64     `json:"id"`
	OperatorID uuid.UUID `json:"operator_id"`
	Resource   string    `json:"resource"`
	Action     string    `json:"action"`
	RecordID   string    `json:"record_id"`
	Outcome    string    `json:"outcome"`
	Status     int       `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type Repository interface {
	Record(ctx context.Context, e Entry) error
	ListByResource(ctx context.Context, resource string, limit int) ([]Entry, error)
}
