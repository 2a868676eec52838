package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"lendmatch/internal/lender/models"
	id "lendmatch/pkg/domain"
	"lendmatch/pkg/platform/sentinel"
	txcontext "lendmatch/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists lenders in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Create(ctx context.Context, lender *models.Lender) error {
	query := `
		INSERT INTO lenders (id, name, email, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		lender.ID.String(), lender.Name, lender.Email, string(lender.Status), lender.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert lender: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, lenderID id.LenderID) (*models.Lender, error) {
	query := `
		SELECT id, name, email, status, created_at, deleted_at
		FROM lenders
		WHERE id = $1
	`
	var (
		l         models.Lender
		rawID     string
		status    string
		deletedAt sql.NullTime
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, lenderID.String()).
		Scan(&rawID, &l.Name, &l.Email, &status, &l.CreatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find lender: %w", err)
	}
	parsed, err := id.ParseLenderID(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse lender id: %w", err)
	}
	l.ID = parsed
	l.Status = models.Status(status)
	if deletedAt.Valid {
		at := deletedAt.Time
		l.DeletedAt = &at
	}
	return &l, nil
}

func (s *PostgresStore) MarkDeleted(ctx context.Context, lenderID id.LenderID, at time.Time) error {
	query := `
		UPDATE lenders
		SET status = $2, deleted_at = $3
		WHERE id = $1 AND status = $4
	`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		lenderID.String(), string(models.StatusDeleted), at, string(models.StatusActive))
	if err != nil {
		return fmt.Errorf("mark lender deleted: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark lender deleted: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
