package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ats-gateway/internal/config"
	"ats-gateway/internal/database"
	"ats-gateway/internal/domain/operator"
	"ats-gateway/internal/pkg/password"
)

// OperatorSeeder creates the bootstrap admin operator when it does not exist.
type OperatorSeeder struct {
	Email    string
	Password string
	FullName string
}

func (OperatorSeeder) Name() string { return "operators" }

func (s OperatorSeeder) Run(ctx context.Context, db database.DB) error {
	email := operator.NormalizeEmail(s.Email)
	if email == "" {
		return nil
	}
	if s.Password == "" {
		return errors.New("bootstrap operator password is empty")
	}
	if err := EnsureTableColumns(ctx, db, "operators", "id", "email", "password_hash", "full_name", "role"); err != nil {
		return err
	}

	hash, err := password.Hash(s.Password)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	_, err = db.Exec(
		ctx,
		`INSERT INTO operators (id, email, password_hash, full_name, role) VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`,
		uuid.New(), email, hash, s.FullName, operator.RoleAdmin,
	)
	return err
}

// Defaults returns the seeders run by `atsctl seed` and at server start.
func Defaults(b config.BootstrapConfig) []Seeder {
	return []Seeder{
		OperatorSeeder{Email: b.OperatorEmail, Password: b.OperatorPassword, FullName: b.OperatorName},
	}
}
