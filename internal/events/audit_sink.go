package events

import (
	"context"
	"database/sql"
	"fmt"

	"mergington-activities/internal/common/database"
)

// AuditSink appends events to a PostgreSQL audit table. Rows are never read
// back into the registry.
type AuditSink struct {
	db    *sql.DB
	query string
}

// NewAuditSink rejects table names that are not plain SQL identifiers, since
// the name is interpolated into the statement.
func NewAuditSink(db *sql.DB, table string) (*AuditSink, error) {
	if !database.ValidIdentifier(table) {
		return nil, fmt.Errorf("invalid audit table name %q", table)
	}
	return &AuditSink{
		db: db,
		query: fmt.Sprintf(
			`INSERT INTO %s (id, event_type, activity, email, occurred_at) VALUES ($1, $2, $3, $4, $5)`,
			table,
		),
	}, nil
}

func (s *AuditSink) Name() string { return "postgres-audit" }

func (s *AuditSink) Publish(ctx context.Context, evt Event) error {
	_, err := s.db.ExecContext(ctx, s.query,
		evt.ID,
		string(evt.Type),
		evt.Activity,
		evt.Email,
		evt.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("audit insert: %w", err)
	}
	return nil
}
