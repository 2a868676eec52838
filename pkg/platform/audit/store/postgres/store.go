package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	audit "lendmatch/pkg/platform/audit"
	txcontext "lendmatch/pkg/platform/tx"
)

// Store implements audit.Store using the transactional outbox pattern.
// Events are written to the outbox table and published to Kafka by the relay.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store that writes to the outbox.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Payload is the JSON document stored in the outbox and published to Kafka.
type Payload struct {
	ID            string `json:"id"`
	Category      string `json:"category"`
	Timestamp     string `json:"timestamp"`
	AggregateType string `json:"aggregate_type"`
	AggregateID   string `json:"aggregate_id"`
	Action        string `json:"action"`
	Subject       string `json:"subject,omitempty"`
	VersionID     string `json:"version_id,omitempty"`
	Decision      string `json:"decision,omitempty"`
	Reason        string `json:"reason,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
}

// Entry is one unpublished outbox row.
type Entry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
	CreatedAt     time.Time
}

// Append writes an audit event to the outbox table. When ctx carries a
// transaction the write joins it.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	event = event.Normalize(time.Now())
	entryID := uuid.New()

	aggregateType := event.AggregateType
	aggregateID := event.AggregateID
	if aggregateType == "" {
		aggregateType = "audit"
		aggregateID = entryID.String()
	}

	payload, err := json.Marshal(Payload{
		ID:            entryID.String(),
		Category:      string(event.Category),
		Timestamp:     event.Timestamp.UTC().Format(time.RFC3339Nano),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Action:        event.Action,
		Subject:       event.Subject,
		VersionID:     event.VersionID,
		Decision:      event.Decision,
		Reason:        event.Reason,
		RequestID:     event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	query := `
		INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		entryID,
		aggregateType,
		aggregateID,
		event.Action,
		payload,
		event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// ClaimPending locks up to limit unpublished rows, oldest first. It must run
// inside a transaction (see tx.Run) so concurrent relays skip each other's
// rows until commit.
func (s *Store) ClaimPending(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending outbox: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.AggregateType, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox entries: %w", err)
	}
	return entries, nil
}

// MarkPublished stamps published_at on the given rows.
func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	query := `UPDATE outbox SET published_at = $1 WHERE id = ANY($2::uuid[])`
	if _, err := s.execer(ctx).ExecContext(ctx, query, at, pq.Array(strs)); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}

// WithinTx runs fn in a transaction on the store's database.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return txcontext.Run(ctx, s.db, fn)
}
