package session

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/interviewportal/internal/pkg/dberrors"
	"github.com/yigit/interviewportal/internal/pkg/logger"
)

const revocationsTable = "session_revocations"

// PostgresStore keeps revocations in the session_revocations table so every portal instance sees them
type PostgresStore struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPostgresStore creates a revocation store backed by PostgreSQL
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (s *PostgresStore) Revoke(ctx context.Context, sessionID string, until time.Time) error {
	sql, args, err := s.sb.Insert(revocationsTable).
		Columns("session_id", "revoked_until", "created_at").
		Values(sessionID, until, time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build revoke session query: %w", err)
	}

	if _, err := s.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "session_revocations_pkey") {
			// Already logged out from another tab
			return nil
		}
		logger.Error().Err(err).Str("sessionID", sessionID).Msg("Error executing revoke session query")
		return fmt.Errorf("error revoking session: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	sql, args, err := s.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From(revocationsTable).
		Where(squirrel.Eq{"session_id": sessionID}).
		Where(squirrel.Gt{"revoked_until": time.Now()}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build revocation lookup query: %w", err)
	}

	var revoked bool
	if err := s.db.QueryRow(ctx, sql, args...).Scan(&revoked); err != nil {
		return false, fmt.Errorf("error checking session revocation: %w", err)
	}
	return revoked, nil
}

func (s *PostgresStore) Purge(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := s.sb.Delete(revocationsTable).
		Where(squirrel.LtOrEq{"revoked_until": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build purge revocations query: %w", err)
	}

	tag, err := s.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error purging revocations: %w", err)
	}
	return tag.RowsAffected(), nil
}
