package dashboard

import (
	"sort"
	"strconv"
	"strings"

	"github.com/yigit/interviewportal/internal/app/models"
)

// SortRows orders rows by a column key. Numeric cells compare as numbers and
// come before text cells. The sort is stable and works on a copy.
func SortRows(rows []models.Candidate, key string, descending bool) []models.Candidate {
	sorted := append([]models.Candidate{}, rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := Cell(sorted[i], key), Cell(sorted[j], key)
		if descending {
			return less(b, a)
		}
		return less(a, b)
	})
	return sorted
}

func less(a, b string) bool {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	switch {
	case errA == nil && errB == nil:
		return fa < fb
	case errA == nil:
		return true
	case errB == nil:
		return false
	}
	return strings.ToLower(a) < strings.ToLower(b)
}

// FilterRows keeps rows whose cell for key contains term, ignoring case.
// An empty term keeps everything.
func FilterRows(rows []models.Candidate, key, term string) []models.Candidate {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	filtered := make([]models.Candidate, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(Cell(row, key)), term) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
