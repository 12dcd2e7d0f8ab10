package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ats-gateway/internal/database"
	"ats-gateway/internal/domain/audit"
	"ats-gateway/internal/domain/operator"
)

type execCall struct {
	query string
	args  []any
}

type fakeQuerier struct {
	execs   []execCall
	execErr error

	row  database.Row
	rows database.Rows
}

func (f *fakeQuerier) Exec(_ context.Context, query string, args ...any) (int64, error) {
	f.execs = append(f.execs, execCall{query: query, args: args})
	if f.execErr != nil {
		return 0, f.execErr
	}
	return 1, nil
}

func (f *fakeQuerier) Query(_ context.Context, query string, args ...any) (database.Rows, error) {
	f.execs = append(f.execs, execCall{query: query, args: args})
	return f.rows, nil
}

func (f *fakeQuerier) QueryRow(_ context.Context, query string, args ...any) database.Row {
	f.execs = append(f.execs, execCall{query: query, args: args})
	return f.row
}

type scanFunc func(dest ...any) error

func (s scanFunc) Scan(dest ...any) error { return s(dest...) }

type fakeRows struct {
	scans []scanFunc
	i     int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool { return r.i < len(r.scans) }
func (r *fakeRows) Scan(dest ...any) error {
	s := r.scans[r.i]
	r.i++
	return s(dest...)
}

func TestOperatorRepository_Create(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{}
	repo := NewOperatorRepository(q)
	id := uuid.New()

	err := repo.Create(context.Background(), operator.Operator{
		ID: id, Email: "  Jane@Example.com ", PasswordHash: "h", FullName: "Jane", Role: operator.RoleAdmin,
	})
	require.NoError(t, err)
	require.Len(t, q.execs, 1)
	assert.Equal(t, []any{id, "jane@example.com", "h", "Jane", operator.RoleAdmin}, q.execs[0].args)

	q.execErr = &pgconn.PgError{Code: "23505"}
	err = repo.Create(context.Background(), operator.Operator{ID: uuid.New(), Email: "jane@example.com"})
	require.ErrorIs(t, err, operator.ErrEmailTaken)
}

func TestOperatorRepository_GetByEmail(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	q := &fakeQuerier{row: scanFunc(func(dest ...any) error {
		*dest[0].(*uuid.UUID) = id
		*dest[1].(*string) = "jane@example.com"
		*dest[2].(*string) = "hash"
		*dest[3].(*string) = "Jane Doe"
		*dest[4].(*string) = operator.RoleRecruiter
		*dest[5].(*time.Time) = created
		*dest[6].(*time.Time) = created
		return nil
	})}

	o, err := NewOperatorRepository(q).GetByEmail(context.Background(), "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, o.ID)
	assert.Equal(t, "Jane Doe", o.FullName)
	assert.Equal(t, created, o.CreatedAt)
	assert.Equal(t, []any{"jane@example.com"}, q.execs[0].args)
}

func TestOperatorRepository_NotFound(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{row: scanFunc(func(...any) error { return database.ErrNoRows })}
	_, err := NewOperatorRepository(q).GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, operator.ErrNotFound)

	boom := errors.New("boom")
	q.row = scanFunc(func(...any) error { return boom })
	_, err = NewOperatorRepository(q).GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, boom)
}

func TestAuditRepository(t *testing.T) {
	t.Parallel()

	op := uuid.New()
	q := &fakeQuerier{rows: &fakeRows{scans: []scanFunc{
		func(dest ...any) error {
			*dest[0].(*int64) = 7
			*dest[1].(*uuid.UUID) = op
			*dest[2].(*string) = "jobs"
			*dest[3].(*string) = "delete"
			*dest[4].(*string) = "42"
			*dest[5].(*string) = audit.OutcomeFailure
			*dest[6].(*int) = 404
			return nil
		},
	}}}
	repo := NewAuditRepository(q)

	err := repo.Record(context.Background(), audit.Entry{
		OperatorID: op, Resource: "jobs", Action: "delete", RecordID: "42", Outcome: audit.OutcomeFailure, Status: 404,
	})
	require.NoError(t, err)
	assert.Equal(t, []any{op, "jobs", "delete", "42", audit.OutcomeFailure, 404}, q.execs[0].args)

	got, err := repo.ListByResource(context.Background(), "jobs", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ID)
	assert.Equal(t, 404, got[0].Status)
	assert.Equal(t, []any{"jobs", defaultAuditLimit}, q.execs[1].args)
}
