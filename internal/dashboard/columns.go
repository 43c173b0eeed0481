// Package dashboard holds the candidate grid: columns, paging, loading and row helpers.
package dashboard

import (
	"strconv"

	"github.com/yigit/interviewportal/internal/app/models"
)

// Column keys
const (
	ColumnID                  = "id"
	ColumnCandidateName       = "CandidateName"
	ColumnTotalExperience     = "TotalExperience"
	ColumnSkillSet            = "SkillSet"
	ColumnNoticePeriod        = "NoticePeriod"
	ColumnCurrentOrganization = "CurrentOrganization"
	ColumnInterviewer         = "Interviewer"
	ColumnClientName          = "ClientName"
	ColumnClientManagerName   = "ClientManagerName"
	ColumnFeedback            = "Feedback"
	ColumnRemarks             = "Remarks"
	ColumnAction              = "Action"
)

// Column is one grid column
type Column struct {
	Key        string
	Header     string
	Sortable   bool
	Filterable bool
	// Width is the terminal width in cells
	Width int
}

var (
	baseColumns = []Column{
		{Key: ColumnID, Header: "S.No", Sortable: true, Filterable: true, Width: 6},
		{Key: ColumnCandidateName, Header: "Candidate Name", Sortable: true, Width: 20},
		{Key: ColumnTotalExperience, Header: "Experience", Sortable: true, Filterable: true, Width: 10},
		{Key: ColumnSkillSet, Header: "Technology", Sortable: true, Filterable: true, Width: 18},
		{Key: ColumnNoticePeriod, Header: "Notice Period", Sortable: true, Filterable: true, Width: 13},
		{Key: ColumnCurrentOrganization, Header: "Current Organization", Sortable: true, Filterable: true, Width: 20},
	}
	adminColumns = []Column{
		{Key: ColumnInterviewer, Header: "Interviewer", Sortable: true, Filterable: true, Width: 16},
		{Key: ColumnClientName, Header: "Client Name", Sortable: true, Filterable: true, Width: 14},
		{Key: ColumnClientManagerName, Header: "Client Manager", Sortable: true, Filterable: true, Width: 16},
	}
	verdictColumns = []Column{
		{Key: ColumnFeedback, Header: "Feedback", Sortable: true, Filterable: true, Width: 10},
		{Key: ColumnRemarks, Header: "Remarks", Sortable: true, Filterable: true, Width: 24},
	}
	actionColumn = Column{Key: ColumnAction, Header: "Action", Width: 8}
)

// Columns returns the visible columns for role, in display order
func Columns(role models.Role) []Column {
	columns := append([]Column{}, baseColumns...)
	if role == models.RoleAdmin {
		columns = append(columns, adminColumns...)
	}
	if role.Authenticated() {
		columns = append(columns, verdictColumns...)
		columns = append(columns, actionColumn)
	}
	return columns
}

// FindColumn looks a column up by key among columns
func FindColumn(columns []Column, key string) (Column, bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Cell returns the display text of a candidate for a column key
func Cell(c models.Candidate, key string) string {
	switch key {
	case ColumnID:
		return strconv.FormatInt(c.ID, 10)
	case ColumnCandidateName:
		return c.CandidateName
	case ColumnTotalExperience:
		return c.TotalExperience.String()
	case ColumnSkillSet:
		return c.SkillSet
	case ColumnNoticePeriod:
		return c.NoticePeriod
	case ColumnCurrentOrganization:
		return c.CurrentOrganization
	case ColumnInterviewer:
		if c.Interviewer != "" {
			return c.Interviewer.String()
		}
		if c.InterviewerID != nil {
			return strconv.FormatInt(*c.InterviewerID, 10)
		}
		return ""
	case ColumnClientName:
		return c.ClientName
	case ColumnClientManagerName:
		return c.ClientManagerName
	case ColumnFeedback:
		return c.Feedback
	case ColumnRemarks:
		return c.Remarks
	}
	return ""
}
