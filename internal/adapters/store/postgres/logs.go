package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jsamuelsen11/salesflow/internal/domain/audit"
	"github.com/jsamuelsen11/salesflow/internal/domain/event"
)

// EventLog is the durable domain event log. A batch is appended in one
// transaction so subscribers never see half of it.
type EventLog struct {
	db *sql.DB
}

func (l *EventLog) Append(ctx context.Context, events ...event.Event) (err error) {
	if len(events) == 0 {
		return nil
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning event append: %w", err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, ignoreDone(tx.Rollback()))
		}
	}()

	const query = `INSERT INTO domain_events (id, type, aggregate_id, aggregate_type, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for _, e := range events {
		payload, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("encoding payload of event %s: %w", e.ID, err)
		}
		if e.Payload == nil {
			payload = []byte("{}")
		}
		if _, err := tx.ExecContext(ctx, query, e.ID, string(e.Type), e.AggregateID, string(e.AggregateType), string(payload), e.OccurredAt); err != nil {
			return fmt.Errorf("appending event %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// List returns the events of one aggregate in append order, or every event
// when aggregateID is empty. JSON numbers in payloads decode as float64.
func (l *EventLog) List(ctx context.Context, aggregateID string) ([]event.Event, error) {
	query := `SELECT id, type, aggregate_id, aggregate_type, payload, occurred_at FROM domain_events`
	var args []any
	if aggregateID != "" {
		query += ` WHERE aggregate_id = $1`
		args = append(args, aggregateID)
	}
	query += ` ORDER BY seq`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var out []event.Event
	for rows.Next() {
		var (
			e       event.Event
			typ     string
			aggType string
			payload []byte
		)
		if err := rows.Scan(&e.ID, &typ, &e.AggregateID, &aggType, &payload, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Type = event.Type(typ)
		e.AggregateType = event.AggregateType(aggType)
		if err := json.Unmarshal(payload, &e.Payload); err != nil {
			return nil, fmt.Errorf("decoding payload of event %s: %w", e.ID, err)
		}
		e.OccurredAt = e.OccurredAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return out, nil
}

// AuditLog is the append-only audit table.
type AuditLog struct {
	db *sql.DB
}

func (l *AuditLog) Append(ctx context.Context, entry *audit.Entry) error {
	var details sql.NullString
	if entry.Details != nil {
		b, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("encoding audit details: %w", err)
		}
		details = sql.NullString{String: string(b), Valid: true}
	}

	const query = `INSERT INTO audit_log
		(id, actor_id, action, resource_type, resource_id, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := l.db.ExecContext(ctx, query,
		entry.ID, entry.ActorID, string(entry.Action), entry.ResourceType, entry.ResourceID,
		details, entry.IPAddress, entry.UserAgent, entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("appending audit entry %s: %w", entry.ID, err)
	}
	return nil
}

func (l *AuditLog) List(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	var (
		where []string
		args  []any
	)
	add := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	add("actor_id", filter.ActorID)
	add("action", string(filter.Action))
	add("resource_id", filter.ResourceID)

	query := `SELECT id, actor_id, action, resource_type, resource_id, details, ip_address, user_agent, created_at
		FROM audit_log`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY seq`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var out []audit.Entry
	for rows.Next() {
		var (
			e       audit.Entry
			action  string
			details []byte
		)
		if err := rows.Scan(&e.ID, &e.ActorID, &action, &e.ResourceType, &e.ResourceID,
			&details, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Action = audit.Action(action)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("decoding audit details %s: %w", e.ID, err)
			}
		}
		e.CreatedAt = e.CreatedAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	return out, nil
}
