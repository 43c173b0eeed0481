package dashboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/yigit/interviewportal/internal/app/models"
)

type cachedRow struct {
	candidate models.Candidate
	expiresAt time.Time
}

// RowCache remembers the rows a session last saw on the dashboard so the edit
// page can start from the record the user clicked.
type RowCache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	rows map[string]cachedRow
	now  func() time.Time
}

// MaxHandOffTTL caps how long a dashboard row may seed an edit
const MaxHandOffTTL = 10 * time.Minute

// NewRowCache creates a cache whose entries live for ttl, at most MaxHandOffTTL
func NewRowCache(ttl time.Duration) *RowCache {
	if ttl <= 0 || ttl > MaxHandOffTTL {
		ttl = MaxHandOffTTL
	}
	return &RowCache{
		ttl:  ttl,
		rows: make(map[string]cachedRow),
		now:  time.Now,
	}
}

func rowKey(sessionID string, id int64) string {
	return fmt.Sprintf("%s:%d", sessionID, id)
}

// Remember stores rows for sessionID
func (c *RowCache) Remember(sessionID string, rows []models.Candidate) {
	if sessionID == "" {
		return
	}
	expiresAt := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, row := range rows {
		c.rows[rowKey(sessionID, row.ID)] = cachedRow{candidate: row, expiresAt: expiresAt}
	}
}

// Lookup returns the row id remembered for sessionID, or nil
func (c *RowCache) Lookup(sessionID string, id int64) *models.Candidate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.rows[rowKey(sessionID, id)]
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil
	}
	candidate := entry.candidate
	return &candidate
}

// Purge drops expired entries and returns how many were removed
func (c *RowCache) Purge() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, entry := range c.rows {
		if !now.Before(entry.expiresAt) {
			delete(c.rows, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, expired or not
func (c *RowCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rows)
}
