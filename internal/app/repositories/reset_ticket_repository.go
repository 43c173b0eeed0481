package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
	"github.com/yigit/interviewportal/internal/pkg/logger"
)

const resetTicketsTable = "password_reset_tickets"

// ResetTicketRepository persists password-reset tickets
type ResetTicketRepository interface {
	Save(ctx context.Context, ticket models.ResetTicket) error
	FindByID(ctx context.Context, id string) (models.ResetTicket, error)
	// AddAttempt counts one verification try and returns the new total
	AddAttempt(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes tickets that expired before cutoff
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// MemoryResetTicketRepository keeps tickets in process memory
type MemoryResetTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]models.ResetTicket
}

// NewMemoryResetTicketRepository creates an empty in-memory repository
func NewMemoryResetTicketRepository() *MemoryResetTicketRepository {
	return &MemoryResetTicketRepository{tickets: make(map[string]models.ResetTicket)}
}

func (r *MemoryResetTicketRepository) Save(_ context.Context, ticket models.ResetTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[ticket.ID] = ticket
	return nil
}

func (r *MemoryResetTicketRepository) FindByID(_ context.Context, id string) (models.ResetTicket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return models.ResetTicket{}, apperrors.ErrResetTicketAbsent
	}
	return ticket, nil
}

func (r *MemoryResetTicketRepository) AddAttempt(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return 0, apperrors.ErrResetTicketAbsent
	}
	ticket.Attempts++
	r.tickets[id] = ticket
	return ticket.Attempts, nil
}

func (r *MemoryResetTicketRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tickets, id)
	return nil
}

func (r *MemoryResetTicketRepository) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, ticket := range r.tickets {
		if ticket.ExpiresAt.Before(cutoff) {
			delete(r.tickets, id)
			removed++
		}
	}
	return removed, nil
}

// PostgresResetTicketRepository stores tickets in the password_reset_tickets table
type PostgresResetTicketRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPostgresResetTicketRepository creates a new PostgresResetTicketRepository
func NewPostgresResetTicketRepository(db *pgxpool.Pool) *PostgresResetTicketRepository {
	return &PostgresResetTicketRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Save inserts the ticket or replaces the code of an existing one
func (r *PostgresResetTicketRepository) Save(ctx context.Context, ticket models.ResetTicket) error {
	sql, args, err := r.sb.Insert(resetTicketsTable).
		Columns("id", "email", "code_hash", "expires_at", "verified", "attempts", "created_at").
		Values(ticket.ID, ticket.Email, ticket.CodeHash, ticket.ExpiresAt, ticket.Verified, ticket.Attempts, ticket.CreatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET code_hash = EXCLUDED.code_hash, expires_at = EXCLUDED.expires_at, verified = EXCLUDED.verified, attempts = EXCLUDED.attempts").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build save reset ticket query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("ticketID", ticket.ID).Msg("Error executing save reset ticket query")
		return fmt.Errorf("error saving reset ticket: %w", err)
	}
	return nil
}

func (r *PostgresResetTicketRepository) FindByID(ctx context.Context, id string) (models.ResetTicket, error) {
	sql, args, err := r.sb.Select("id", "email", "code_hash", "expires_at", "verified", "attempts", "created_at").
		From(resetTicketsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.ResetTicket{}, fmt.Errorf("failed to build find reset ticket query: %w", err)
	}

	var ticket models.ResetTicket
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&ticket.ID,
		&ticket.Email,
		&ticket.CodeHash,
		&ticket.ExpiresAt,
		&ticket.Verified,
		&ticket.Attempts,
		&ticket.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ResetTicket{}, apperrors.ErrResetTicketAbsent
		}
		return models.ResetTicket{}, fmt.Errorf("error retrieving reset ticket: %w", err)
	}
	return ticket, nil
}

// AddAttempt increments the counter in the database so concurrent tries are all counted
func (r *PostgresResetTicketRepository) AddAttempt(ctx context.Context, id string) (int, error) {
	sql, args, err := r.sb.Update(resetTicketsTable).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING attempts").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build reset attempt query: %w", err)
	}

	var attempts int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&attempts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrResetTicketAbsent
		}
		return 0, fmt.Errorf("error counting reset attempt: %w", err)
	}
	return attempts, nil
}

func (r *PostgresResetTicketRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete(resetTicketsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete reset ticket query: %w", err)
	}
	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting reset ticket: %w", err)
	}
	return nil
}

func (r *PostgresResetTicketRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	sql, args, err := r.sb.Delete(resetTicketsTable).Where(squirrel.Lt{"expires_at": cutoff}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build purge reset tickets query: %w", err)
	}
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error deleting expired reset tickets: %w", err)
	}
	return tag.RowsAffected(), nil
}
