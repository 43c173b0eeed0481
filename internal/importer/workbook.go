// Package importer turns an uploaded spreadsheet into candidate rows and posts them as one batch.
package importer

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
)

// Header names expected in the first row of the sheet
const (
	HeaderCandidateName       = "CandidateName"
	HeaderTotalExperience     = "TotalExperience"
	HeaderSkillSet            = "SkillSet"
	HeaderCurrentOrganization = "CurrentOrganization"
	HeaderNoticePeriod        = "NoticePeriod"
	HeaderFeedback            = "Feedback"
	HeaderRemarks             = "Remarks"
	HeaderClientName          = "ClientName"
	HeaderClientManagerName   = "ClientManagerName"
	HeaderInterviewerID       = "InterviewerId"
	HeaderResumePath          = "ResumePath"
)

// Headers lists the recognised columns in template order
var Headers = []string{
	HeaderCandidateName,
	HeaderTotalExperience,
	HeaderSkillSet,
	HeaderCurrentOrganization,
	HeaderNoticePeriod,
	HeaderFeedback,
	HeaderRemarks,
	HeaderClientName,
	HeaderClientManagerName,
	HeaderInterviewerID,
	HeaderResumePath,
}

// ParseWorkbook reads the first sheet of an xlsx workbook. The first row names
// the columns; every later non-blank row becomes a header-keyed record.
func ParseWorkbook(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []map[string]string{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		record := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				record[name] = row[i]
			} else {
				record[name] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// MapRows maps header-keyed records onto the import schema
func MapRows(records []map[string]string) []models.ImportRow {
	rows := make([]models.ImportRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, models.ImportRow{
			CandidateName:       r[HeaderCandidateName],
			TotalExperience:     r[HeaderTotalExperience],
			SkillSet:            r[HeaderSkillSet],
			CurrentOrganization: r[HeaderCurrentOrganization],
			NoticePeriod:        r[HeaderNoticePeriod],
			Feedback:            r[HeaderFeedback],
			Remarks:             r[HeaderRemarks],
			ClientName:          r[HeaderClientName],
			ClientManagerName:   r[HeaderClientManagerName],
			InterviewerID:       interviewerID(r[HeaderInterviewerID]),
			ResumePath:          r[HeaderResumePath],
		})
	}
	return rows
}

// interviewerID converts a cell to an interviewer reference. Any non-zero whole
// number is kept, negatives included. Empty, zero, fractional or non-numeric
// cells become null, since ids are integers and truncating would point at
// another interviewer.
func interviewerID(cell string) *int64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}
	f, err := strconv.ParseFloat(cell, 64)
	if err != nil || f == 0 || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil
	}
	id := int64(f)
	return &id
}
