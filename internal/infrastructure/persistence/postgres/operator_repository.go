package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"ats-gateway/internal/database"
	pgdb "ats-gateway/internal/database/postgres"
	"ats-gateway/internal/domain/operator"
)

const operatorColumns = `id, email, password_hash, full_name, role, created_at, updated_at`

type OperatorRepository struct {
	db database.Querier
}

func NewOperatorRepository(db database.Querier) *OperatorRepository {
	return &OperatorRepository{db: db}
}

func (r *OperatorRepository) Create(ctx context.Context, o operator.Operator) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO operators (id, email, password_hash, full_name, role) VALUES ($1, $2, $3, $4, $5)`,
		o.ID, operator.NormalizeEmail(o.Email), o.PasswordHash, o.FullName, o.Role,
	)
	if pgdb.IsUniqueViolation(err) {
		return operator.ErrEmailTaken
	}
	return err
}

func (r *OperatorRepository) GetByID(ctx context.Context, id uuid.UUID) (operator.Operator, error) {
	row := r.db.QueryRow(ctx, `SELECT `+operatorColumns+` FROM operators WHERE id = $1`, id)
	return scanOperator(row)
}

func (r *OperatorRepository) GetByEmail(ctx context.Context, email string) (operator.Operator, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+operatorColumns+` FROM operators WHERE lower(email) = $1`,
		operator.NormalizeEmail(email),
	)
	return scanOperator(row)
}

func scanOperator(row database.Row) (operator.Operator, error) {
	var o operator.Operator
	err := row.Scan(&o.ID, &o.Email, &o.PasswordHash, &o.FullName, &o.Role, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, database.ErrNoRows) {
		return operator.Operator{}, operator.ErrNotFound
	}
	if err != nil {
		return operator.Operator{}, err
	}
	return o, nil
}
