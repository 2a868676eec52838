package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"lendmatch/internal/evaluator"
	"lendmatch/internal/matching/models"
	id "lendmatch/pkg/domain"
	txcontext "lendmatch/pkg/platform/tx"
)

const matchColumns = `borrower_id, lender_id, policy_version, program_name, status, amount, reasons, evaluated_at`

// rankOrder sorts rows by status rank, then most recent first.
const rankOrder = `
	ORDER BY CASE status
		WHEN 'perfect' THEN 0
		WHEN 'high' THEN 1
		WHEN 'partial' THEN 2
		WHEN 'rejected' THEN 3
		ELSE 4
	END, evaluated_at DESC, borrower_id, lender_id
`

// PostgresStore persists match results in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Upsert replaces the pair's result unless the stored one is newer.
func (s *PostgresStore) Upsert(ctx context.Context, r *models.MatchResult) error {
	query := `
		INSERT INTO match_results (` + matchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (borrower_id, lender_id) DO UPDATE SET
			policy_version = EXCLUDED.policy_version,
			program_name   = EXCLUDED.program_name,
			status         = EXCLUDED.status,
			amount         = EXCLUDED.amount,
			reasons        = EXCLUDED.reasons,
			evaluated_at   = EXCLUDED.evaluated_at
		WHERE match_results.evaluated_at <= EXCLUDED.evaluated_at
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		r.BorrowerID.String(),
		r.LenderID.String(),
		r.PolicyVersion.String(),
		r.ProgramName,
		string(r.Status),
		r.Amount.StringFixed(2),
		pq.Array(r.Reasons),
		r.EvaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert match result: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByLender(ctx context.Context, lenderID id.LenderID) ([]*models.MatchResult, error) {
	return s.list(ctx, `WHERE lender_id = $1`, lenderID.String())
}

func (s *PostgresStore) ListByBorrower(ctx context.Context, borrowerID id.BorrowerID) ([]*models.MatchResult, error) {
	return s.list(ctx, `WHERE borrower_id = $1`, borrowerID.String())
}

func (s *PostgresStore) list(ctx context.Context, where string, arg any) ([]*models.MatchResult, error) {
	query := `SELECT ` + matchColumns + ` FROM match_results ` + where + rankOrder
	rows, err := s.execer(ctx).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query match results: %w", err)
	}
	defer rows.Close()

	out := []*models.MatchResult{}
	for rows.Next() {
		var (
			r                               models.MatchResult
			borrowerID, lenderID, versionID string
			status                          string
			reasons                         []string
		)
		if err := rows.Scan(&borrowerID, &lenderID, &versionID, &r.ProgramName, &status, &r.Amount, pq.Array(&reasons), &r.EvaluatedAt); err != nil {
			return nil, fmt.Errorf("scan match result: %w", err)
		}
		if r.BorrowerID, err = id.ParseBorrowerID(borrowerID); err != nil {
			return nil, fmt.Errorf("parse borrower id: %w", err)
		}
		if r.LenderID, err = id.ParseLenderID(lenderID); err != nil {
			return nil, fmt.Errorf("parse lender id: %w", err)
		}
		if r.PolicyVersion, err = id.ParseVersionID(versionID); err != nil {
			return nil, fmt.Errorf("parse policy version: %w", err)
		}
		r.Status = evaluator.Status(status)
		r.Reasons = reasons
		if r.Reasons == nil {
			r.Reasons = []string{}
		}
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate match results: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeleteLender(ctx context.Context, lenderID id.LenderID) error {
	_, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM match_results WHERE lender_id = $1`, lenderID.String())
	if err != nil {
		return fmt.Errorf("delete lender matches: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteLenderExcept(ctx context.Context, lenderID id.LenderID, keep []id.BorrowerID, before time.Time) error {
	query := `DELETE FROM match_results
		WHERE lender_id = $1 AND NOT (borrower_id = ANY($2::uuid[])) AND evaluated_at < $3`
	_, err := s.execer(ctx).ExecContext(ctx, query, lenderID.String(), pq.Array(borrowerStrings(keep)), before)
	if err != nil {
		return fmt.Errorf("prune lender matches: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteBorrowers(ctx context.Context, borrowerIDs []id.BorrowerID) error {
	if len(borrowerIDs) == 0 {
		return nil
	}
	query := `DELETE FROM match_results WHERE borrower_id = ANY($1::uuid[])`
	if _, err := s.execer(ctx).ExecContext(ctx, query, pq.Array(borrowerStrings(borrowerIDs))); err != nil {
		return fmt.Errorf("delete borrower matches: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteBorrowerExcept(ctx context.Context, borrowerID id.BorrowerID, keep []id.LenderID, before time.Time) error {
	strs := make([]string, len(keep))
	for i, l := range keep {
		strs[i] = l.String()
	}
	query := `DELETE FROM match_results
		WHERE borrower_id = $1 AND NOT (lender_id = ANY($2::uuid[])) AND evaluated_at < $3`
	if _, err := s.execer(ctx).ExecContext(ctx, query, borrowerID.String(), pq.Array(strs), before); err != nil {
		return fmt.Errorf("prune borrower matches: %w", err)
	}
	return nil
}

func borrowerStrings(ids []id.BorrowerID) []string {
	strs := make([]string, len(ids))
	for i, b := range ids {
		strs[i] = b.String()
	}
	return strs
}
