package models

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
)

// Candidate is one recruitment record as returned by the API
type Candidate struct {
	ID                  int64      `json:"id"`
	CandidateName       string     `json:"CandidateName"`
	TotalExperience     FlexString `json:"TotalExperience"`
	SkillSet            string     `json:"SkillSet"`
	CurrentOrganization string     `json:"CurrentOrganization"`
	NoticePeriod        string     `json:"NoticePeriod"`
	ClientName          string     `json:"ClientName"`
	ClientManagerName   string     `json:"ClientManagerName"`
	InterviewerID       *int64     `json:"InterviewerId"`
	Interviewer         FlexString `json:"Interviewer"`
	Feedback            string     `json:"Feedback"`
	Remarks             string     `json:"Remarks"`
	ResumePath          string     `json:"ResumePath"`
}

// CandidatePage is one page of the paginated listing
type CandidatePage struct {
	Candidates []Candidate `json:"candidates"`
	TotalCount int         `json:"totalcount"`
}

// CandidateInput is the full candidate body sent on create and admin update.
// Feedback and Remarks are omitted when empty so an admin save keeps the interviewer's verdict.
type CandidateInput struct {
	CandidateName       string `json:"CandidateName"`
	TotalExperience     string `json:"TotalExperience"`
	SkillSet            string `json:"SkillSet"`
	CurrentOrganization string `json:"CurrentOrganization"`
	NoticePeriod        string `json:"NoticePeriod"`
	ClientName          string `json:"ClientName"`
	ClientManagerName   string `json:"ClientManagerName"`
	InterviewerID       *int64 `json:"InterviewerId"`
	Feedback            string `json:"Feedback,omitempty"`
	Remarks             string `json:"Remarks,omitempty"`
}

// FeedbackInput is the interviewer's update body
type FeedbackInput struct {
	Feedback string `json:"Feedback"`
	Remarks  string `json:"Remarks"`
}

// ImportRow is one spreadsheet row mapped onto the candidate schema
type ImportRow struct {
	CandidateName       string `json:"CandidateName"`
	TotalExperience     string `json:"TotalExperience"`
	SkillSet            string `json:"SkillSet"`
	CurrentOrganization string `json:"CurrentOrganization"`
	NoticePeriod        string `json:"NoticePeriod"`
	Feedback            string `json:"Feedback"`
	Remarks             string `json:"Remarks"`
	ClientName          string `json:"ClientName"`
	ClientManagerName   string `json:"ClientManagerName"`
	InterviewerID       *int64 `json:"InterviewerId"`
	ResumePath          string `json:"ResumePath"`
}

// Upload is a file received from the browser and forwarded to the API
type Upload struct {
	Filename string
	Content  io.Reader
}

// FlexString decodes a JSON string, number or null into text
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the text value
func (f FlexString) String() string {
	return string(f)
}

// FormatID renders a candidate id for URLs and form values
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
