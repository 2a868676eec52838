// Package relay publishes audit outbox rows to Kafka.
//
// Each tick claims a batch of unpublished rows inside a transaction,
// produces them synchronously and marks them published before commit. A
// produce failure rolls the transaction back so the rows are retried on the
// next tick; delivery is at-least-once.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"lendmatch/pkg/platform/audit/store/postgres"
)

const (
	defaultInterval = time.Second
	defaultBatch    = 100
)

// Outbox is the slice of the postgres outbox store the relay needs.
type Outbox interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	ClaimPending(ctx context.Context, limit int) ([]postgres.Entry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// Producer is satisfied by *kgo.Client.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

type Relay struct {
	outbox   Outbox
	producer Producer
	topic    string
	interval time.Duration
	batch    int
	logger   *slog.Logger
}

type Option func(*Relay)

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batch = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

func New(outbox Outbox, producer Producer, topic string, opts ...Option) *Relay {
	r := &Relay{
		outbox:   outbox,
		producer: producer,
		topic:    topic,
		interval: defaultInterval,
		batch:    defaultBatch,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run relays until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := r.RelayOnce(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				r.logger.WarnContext(ctx, "audit relay tick failed", "error", err)
				continue
			}
			if n > 0 {
				r.logger.DebugContext(ctx, "audit events relayed", "count", n)
			}
		}
	}
}

// RelayOnce publishes at most one batch and returns how many rows were
// marked published.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	var published int
	err := r.outbox.WithinTx(ctx, func(ctx context.Context) error {
		entries, err := r.outbox.ClaimPending(ctx, r.batch)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		records := make([]*kgo.Record, len(entries))
		ids := make([]uuid.UUID, len(entries))
		for i, e := range entries {
			records[i] = toRecord(r.topic, e)
			ids[i] = e.ID
		}
		if err := r.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
			return fmt.Errorf("produce audit batch: %w", err)
		}
		if err := r.outbox.MarkPublished(ctx, ids, time.Now()); err != nil {
			return err
		}
		published = len(entries)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return published, nil
}

func toRecord(topic string, e postgres.Entry) *kgo.Record {
	return &kgo.Record{
		Topic:     topic,
		Key:       []byte(e.AggregateID),
		Value:     e.Payload,
		Timestamp: e.CreatedAt,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(e.EventType)},
			{Key: "aggregate_type", Value: []byte(e.AggregateType)},
			{Key: "outbox_id", Value: []byte(e.ID.String())},
		},
	}
}
