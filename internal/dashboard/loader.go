package dashboard

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/interviewportal/internal/app/models"
)

// PageSource serves one page of candidates
type PageSource interface {
	CandidatesPage(ctx context.Context, skip, limit int) (models.CandidatePage, error)
}

// Page is the grid content for one State
type Page struct {
	State State
	Rows  []models.Candidate
	// Err is set when the fetch failed. Rows is then empty and Total zero.
	Err error
}

// Fetch loads the page described by st. A failure yields an empty page rather than stale rows.
func Fetch(ctx context.Context, src PageSource, st State, logger zerolog.Logger) Page {
	result, err := src.CandidatesPage(ctx, st.Skip(), st.Limit())
	if err != nil {
		logger.Error().Err(err).Int("page", st.Index).Int("size", st.Size).Msg("Failed to load candidates")
		st.Total = 0
		return Page{State: st, Rows: []models.Candidate{}, Err: err}
	}

	st.Total = result.TotalCount
	rows := result.Candidates
	if rows == nil {
		rows = []models.Candidate{}
	}
	return Page{State: st, Rows: rows}
}

// Loader serializes page loads so only the latest request is applied.
// Starting a load cancels the one in flight.
type Loader struct {
	src    PageSource
	logger zerolog.Logger

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	current    Page
	loading    bool
}

// NewLoader creates a loader over src
func NewLoader(src PageSource, logger zerolog.Logger) *Loader {
	return &Loader{
		src:     src,
		logger:  logger.With().Str("component", "dashboard").Logger(),
		current: Page{State: NewState(0, 0), Rows: []models.Candidate{}},
	}
}

// Begin registers a new load for st and returns its generation and context.
// Any earlier load is cancelled.
func (l *Loader) Begin(ctx context.Context, st State) (uint64, context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}
	l.generation++
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.loading = true
	return l.generation, ctx
}

// Apply stores page if gen is still the latest generation. Stale pages are dropped.
func (l *Loader) Apply(gen uint64, page Page) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		return false
	}
	l.current = page
	l.loading = false
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	return true
}

// Fetch loads st from the loader's source without applying it.
// Callers pair it with Begin and Apply when the fetch runs elsewhere.
func (l *Loader) Fetch(ctx context.Context, st State) Page {
	return Fetch(ctx, l.src, st, l.logger)
}

// Load fetches st and applies it when no newer load started meanwhile
func (l *Loader) Load(ctx context.Context, st State) Page {
	gen, loadCtx := l.Begin(ctx, st)
	page := l.Fetch(loadCtx, st)
	if !l.Apply(gen, page) {
		l.logger.Debug().Uint64("generation", gen).Msg("Dropped stale candidate page")
	}
	return page
}

// Current returns the last applied page
func (l *Loader) Current() Page {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Loading reports whether a load is in flight
func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}
