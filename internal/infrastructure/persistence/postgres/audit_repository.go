package postgres

import (
	"context"

	"ats-gateway/internal/database"
	"ats-gateway/internal/domain/audit"
)

const defaultAuditLimit = 50

type AuditRepository struct {
	db database.Querier
}

func NewAuditRepository(db database.Querier) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(ctx context.Context, e audit.Entry) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO mutation_audit (operator_id, resource, action, record_id, outcome, status) VALUES ($1, $2, $3, $4, $5, $6)`,
		e.OperatorID, e.Resource, e.Action, e.RecordID, e.Outcome, e.Status,
	)
	return err
}

// ListByResource returns the newest entries first.
func (r *AuditRepository) ListByResource(ctx context.Context, resource string, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	rows, err := r.db.Query(
		ctx,
		`SELECT id, operator_id, resource, action, record_id, outcome, status, created_at
FROM mutation_audit WHERE resource = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
		resource, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []audit.Entry{}
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.ID, &e.OperatorID, &e.Resource, &e.Action, &e.RecordID, &e.Outcome, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
