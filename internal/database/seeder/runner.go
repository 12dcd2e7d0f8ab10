package seeder

import (
	"context"
	"errors"
	"fmt"

	"ats-gateway/internal/database"
	"ats-gateway/internal/pkg/logger"
)

type Runner struct {
	Seeders []Seeder
	Logger  logger.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	lggr := r.Logger
	if lggr == nil {
		lggr = logger.Nop()
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		lggr.Infow("seeder finished", "seeder", s.Name())
	}
	return nil
}
