package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"lendmatch/internal/borrower/models"
	"lendmatch/internal/fields"
	id "lendmatch/pkg/domain"
	"lendmatch/pkg/platform/sentinel"
	txcontext "lendmatch/pkg/platform/tx"
)

const uniqueViolation = "23505"

const borrowerColumns = `id, created_at, full_name, email, phone, business_name, dba_name, zip_code, attributes`

// PostgresStore persists borrower records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, b *models.Borrower) error {
	attrs, err := json.Marshal(b.Attributes)
	if err != nil {
		return fmt.Errorf("marshal borrower attributes: %w", err)
	}
	query := `
		INSERT INTO borrowers (` + borrowerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		b.ID.String(), b.CreatedAt,
		b.Contact.FullName, b.Contact.Email, b.Contact.Phone,
		b.Contact.BusinessName, b.Contact.DBAName, b.Contact.ZipCode,
		attrs,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert borrower: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, borrowerID id.BorrowerID) (*models.Borrower, error) {
	query := `SELECT ` + borrowerColumns + ` FROM borrowers WHERE id = $1`
	b, err := scanBorrower(s.execer(ctx).QueryRowContext(ctx, query, borrowerID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find borrower: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) FindMany(ctx context.Context, ids []id.BorrowerID) (map[id.BorrowerID]*models.Borrower, error) {
	out := make(map[id.BorrowerID]*models.Borrower, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	strs := make([]string, len(ids))
	for i, bid := range ids {
		strs[i] = bid.String()
	}
	query := `SELECT ` + borrowerColumns + ` FROM borrowers WHERE id = ANY($1::uuid[])`
	rows, err := s.execer(ctx).QueryContext(ctx, query, pq.Array(strs))
	if err != nil {
		return nil, fmt.Errorf("find borrowers: %w", err)
	}
	list, err := collect(rows)
	if err != nil {
		return nil, err
	}
	for _, b := range list {
		out[b.ID] = b
	}
	return out, nil
}

func (s *PostgresStore) ListByEmail(ctx context.Context, address string) ([]*models.Borrower, error) {
	query := `
		SELECT ` + borrowerColumns + `
		FROM borrowers
		WHERE LOWER(email) = LOWER($1)
		ORDER BY seq DESC
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, address)
	if err != nil {
		return nil, fmt.Errorf("list borrowers by email: %w", err)
	}
	return collect(rows)
}

// ListLatest returns the newest record per email, in submission order.
func (s *PostgresStore) ListLatest(ctx context.Context) ([]*models.Borrower, error) {
	query := `
		SELECT ` + borrowerColumns + `
		FROM (
			SELECT DISTINCT ON (LOWER(email)) seq, ` + borrowerColumns + `
			FROM borrowers
			ORDER BY LOWER(email), seq DESC
		) latest
		ORDER BY seq
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list latest borrowers: %w", err)
	}
	return collect(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBorrower(row rowScanner) (*models.Borrower, error) {
	var (
		b     models.Borrower
		rawID string
		attrs []byte
	)
	if err := row.Scan(&rawID, &b.CreatedAt,
		&b.Contact.FullName, &b.Contact.Email, &b.Contact.Phone,
		&b.Contact.BusinessName, &b.Contact.DBAName, &b.Contact.ZipCode,
		&attrs,
	); err != nil {
		return nil, err
	}
	parsed, err := id.ParseBorrowerID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse borrower id: %w", err)
	}
	b.ID = parsed
	b.Attributes = map[string]fields.Value{}
	if err := json.Unmarshal(attrs, &b.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshal borrower attributes: %w", err)
	}
	return &b, nil
}

func collect(rows *sql.Rows) ([]*models.Borrower, error) {
	defer rows.Close()
	out := []*models.Borrower{}
	for rows.Next() {
		b, err := scanBorrower(rows)
		if err != nil {
			return nil, fmt.Errorf("scan borrower: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate borrowers: %w", err)
	}
	return out, nil
}
