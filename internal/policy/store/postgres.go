package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"lendmatch/internal/policy/models"
	id "lendmatch/pkg/domain"
	"lendmatch/pkg/platform/sentinel"
	txcontext "lendmatch/pkg/platform/tx"
	"lendmatch/pkg/requestcontext"
)

const uniqueViolation = "23505"

// PostgresStore persists policy snapshots in PostgreSQL.
//
// Saves for one lender are serialized with a transaction-scoped advisory
// lock; the unique (lender_id, base_version) constraint backs it so two
// snapshots can never share a predecessor.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed policy store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const snapshotColumns = `version_id, lender_id, base_version, created_at,
	excluded_industries, restricted_states, programs, is_active`

func (s *PostgresStore) Save(ctx context.Context, lenderID id.LenderID, draft models.Draft, base id.VersionID) (*models.Snapshot, error) {
	var snap *models.Snapshot
	err := txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		tx, _ := txcontext.From(ctx)

		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lenderID.String()); err != nil {
			return fmt.Errorf("lock lender policy: %w", err)
		}

		var predecessor uuid.UUID
		err := tx.QueryRowContext(ctx,
			`SELECT version_id FROM policy_heads WHERE lender_id = $1`, uuid.UUID(lenderID),
		).Scan(&predecessor)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("read policy head: %w", err)
		}
		if !base.IsNil() && uuid.UUID(base) != predecessor {
			return sentinel.ErrStaleVersion
		}

		snap = models.NewSnapshot(lenderID, id.VersionID(predecessor), draft, requestcontext.Now(ctx).UTC())
		programs, err := json.Marshal(snap.Policy.Programs)
		if err != nil {
			return fmt.Errorf("marshal programs: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO policy_snapshots (`+snapshotColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.UUID(snap.VersionID),
			uuid.UUID(lenderID),
			predecessor,
			snap.CreatedAt,
			pq.Array(snap.Policy.ExcludedIndustries),
			pq.Array(snap.Policy.RestrictedStates),
			programs,
			snap.Policy.IsActive,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return sentinel.ErrStaleVersion
			}
			return fmt.Errorf("insert policy snapshot: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO policy_heads (lender_id, version_id, is_active, updated_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (lender_id) DO UPDATE SET
				version_id = EXCLUDED.version_id,
				is_active = EXCLUDED.is_active,
				updated_at = EXCLUDED.updated_at`,
			uuid.UUID(lenderID), uuid.UUID(snap.VersionID), snap.Policy.IsActive, snap.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("advance policy head: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *PostgresStore) Current(ctx context.Context, lenderID id.LenderID) (*models.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+prefixed("s")+`
		FROM policy_heads h
		JOIN policy_snapshots s ON s.version_id = h.version_id
		WHERE h.lender_id = $1`, uuid.UUID(lenderID))
	snap, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find current policy: %w", err)
	}
	return snap, nil
}

func (s *PostgresStore) History(ctx context.Context, lenderID id.LenderID) ([]*models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM policy_snapshots
		WHERE lender_id = $1
		ORDER BY seq DESC`, uuid.UUID(lenderID))
	if err != nil {
		return nil, fmt.Errorf("list policy history: %w", err)
	}
	return collectSnapshots(rows)
}

func (s *PostgresStore) Get(ctx context.Context, versionID id.VersionID) (*models.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+snapshotColumns+`
		FROM policy_snapshots
		WHERE version_id = $1`, uuid.UUID(versionID))
	snap, err := scanSnapshot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find policy version: %w", err)
	}
	return snap, nil
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*models.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prefixed("s")+`
		FROM policy_heads h
		JOIN policy_snapshots s ON s.version_id = h.version_id
		WHERE h.is_active
		ORDER BY h.lender_id`)
	if err != nil {
		return nil, fmt.Errorf("list active policies: %w", err)
	}
	return collectSnapshots(rows)
}

func prefixed(alias string) string {
	return alias + ".version_id, " + alias + ".lender_id, " + alias + ".base_version, " + alias + ".created_at, " +
		alias + ".excluded_industries, " + alias + ".restricted_states, " + alias + ".programs, " + alias + ".is_active"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*models.Snapshot, error) {
	var (
		versionID, lenderID, base uuid.UUID
		createdAt                 time.Time
		industries, states        []string
		programs                  []byte
		isActive                  bool
	)
	if err := row.Scan(&versionID, &lenderID, &base, &createdAt,
		pq.Array(&industries), pq.Array(&states), &programs, &isActive); err != nil {
		return nil, err
	}

	var progs []models.Program
	if len(programs) > 0 {
		if err := json.Unmarshal(programs, &progs); err != nil {
			return nil, fmt.Errorf("unmarshal programs: %w", err)
		}
	}
	if progs == nil {
		progs = []models.Program{}
	}
	if industries == nil {
		industries = []string{}
	}
	if states == nil {
		states = []string{}
	}

	return &models.Snapshot{
		VersionID:   id.VersionID(versionID),
		LenderID:    id.LenderID(lenderID),
		BaseVersion: id.VersionID(base),
		CreatedAt:   createdAt,
		Policy: models.Policy{
			LenderID:           id.LenderID(lenderID),
			ExcludedIndustries: industries,
			RestrictedStates:   states,
			Programs:           progs,
			IsActive:           isActive,
		},
	}, nil
}

func collectSnapshots(rows *sql.Rows) ([]*models.Snapshot, error) {
	defer rows.Close()
	out := []*models.Snapshot{}
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan policy snapshot: %w", err)
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate policy snapshots: %w", err)
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
