package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	ResetTicketRepository ResetTicketRepository
}

// NewRepositories initializes the PostgreSQL repositories, or in-memory ones when db is nil
func NewRepositories(db *pgxpool.Pool) *Repositories {
	if db == nil {
		return &Repositories{
			ResetTicketRepository: NewMemoryResetTicketRepository(),
		}
	}
	return &Repositories{
		ResetTicketRepository: NewPostgresResetTicketRepository(db),
	}
}
