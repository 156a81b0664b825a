package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/jsamuelsen11/salesflow/internal/domain"
)

// uniqueViolation is the SQLSTATE for a unique constraint violation.
const uniqueViolation pq.ErrorCode = "23505"

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// documents stores one aggregate kind as JSONB rows. Bodies are bound as
// strings because lib/pq sends []byte parameters as bytea.
type documents[T any] struct {
	db      *sql.DB
	kind    string
	id      func(*T) string
	version func(*T) *int
}

func (d documents[T]) notFound(id string) error {
	return fmt.Errorf("%s %q: %w", d.kind, id, domain.ErrNotFound)
}

// mapError translates driver errors into domain sentinels.
func (d documents[T]) mapError(err error, id string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s %q (%s): %w", d.kind, id, pqErr.Constraint, domain.ErrConflict)
	}
	return fmt.Errorf("%s %q: %w", d.kind, id, err)
}

func (d documents[T]) insert(ctx context.Context, v *T) error {
	id := d.id(v)
	*d.version(v) = 1

	body, err := json.Marshal(v)
	if err != nil {
		*d.version(v) = 0
		return fmt.Errorf("encoding %s %q: %w", d.kind, id, err)
	}

	const query = `INSERT INTO documents (kind, id, version, body) VALUES ($1, $2, 1, $3)`
	if _, err := d.db.ExecContext(ctx, query, d.kind, id, string(body)); err != nil {
		*d.version(v) = 0
		return d.mapError(err, id)
	}
	return nil
}

func (d documents[T]) get(ctx context.Context, id string) (*T, error) {
	return d.getWith(ctx, d.db, id, false)
}

func (d documents[T]) getWith(ctx context.Context, q execer, id string, forUpdate bool) (*T, error) {
	query := `SELECT body FROM documents WHERE kind = $1 AND id = $2`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var body []byte
	if err := q.QueryRowContext(ctx, query, d.kind, id).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, d.notFound(id)
		}
		return nil, d.mapError(err, id)
	}

	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decoding %s %q: %w", d.kind, id, err)
	}
	return &v, nil
}

// update writes v if the stored version equals v's version, then bumps it.
func (d documents[T]) update(ctx context.Context, v *T) error {
	return d.updateWith(ctx, d.db, v)
}

func (d documents[T]) updateWith(ctx context.Context, q execer, v *T) error {
	id := d.id(v)
	expected := *d.version(v)
	*d.version(v) = expected + 1

	body, err := json.Marshal(v)
	if err != nil {
		*d.version(v) = expected
		return fmt.Errorf("encoding %s %q: %w", d.kind, id, err)
	}

	const query = `UPDATE documents
		SET body = $1, version = $2, updated_at = now()
		WHERE kind = $3 AND id = $4 AND version = $5`
	res, err := q.ExecContext(ctx, query, string(body), expected+1, d.kind, id, expected)
	if err != nil {
		*d.version(v) = expected
		return d.mapError(err, id)
	}

	n, err := res.RowsAffected()
	if err != nil {
		*d.version(v) = expected
		return d.mapError(err, id)
	}
	if n == 1 {
		return nil
	}

	*d.version(v) = expected
	var stored int
	err = q.QueryRowContext(ctx, `SELECT version FROM documents WHERE kind = $1 AND id = $2`, d.kind, id).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return d.notFound(id)
	case err != nil:
		return d.mapError(err, id)
	default:
		return fmt.Errorf("%s %q version %d, stored %d: %w", d.kind, id, expected, stored, domain.ErrConflict)
	}
}

func (d documents[T]) remove(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM documents WHERE kind = $1 AND id = $2`, d.kind, id)
	if err != nil {
		return d.mapError(err, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return d.mapError(err, id)
	}
	if n == 0 {
		return d.notFound(id)
	}
	return nil
}

// listBy returns the documents whose body field equals value, ordered by ID.
// An empty field lists every document of the kind.
func (d documents[T]) listBy(ctx context.Context, field, value string) ([]T, error) {
	query := `SELECT body FROM documents WHERE kind = $1`
	args := []any{d.kind}
	if field != "" {
		query += ` AND body ->> $2 = $3`
		args = append(args, field, value)
	}
	query += ` ORDER BY id`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", d.kind, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", d.kind, err)
		}
		var v T
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", d.kind, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s: %w", d.kind, err)
	}
	return out, nil
}
