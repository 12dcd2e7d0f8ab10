package seeder

import (
	"context"

	"ats-gateway/internal/database"
)

// Seeder inserts baseline rows. Implementations must be idempotent.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
