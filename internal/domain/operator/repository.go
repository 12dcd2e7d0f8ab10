package operator

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("operator not found")
	ErrEmailTaken   = errors.New("operator email already registered")
)

type Repository interface {
	Create(ctx context.Context, o Operator) error
	GetByID(ctx context.Context, id uuid.UUID) (Operator, error)
	GetByEmail(ctx context.Context, email string) (Operator, error)
}
