package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/yigit/interviewportal/internal/app/models"
)

// Interviewers lists the interviewer directory
func (c *Client) Interviewers(ctx context.Context) ([]models.Interviewer, error) {
	body, err := c.get(ctx, "Failed to load interviewers", "/interviewers/", nil)
	if err != nil {
		return nil, err
	}
	var interviewers []models.Interviewer
	if err := decode("Failed to load interviewers", body, &interviewers); err != nil {
		return nil, err
	}
	return interviewers, nil
}

// CandidatesPage fetches one page of candidates with skip/limit
func (c *Client) CandidatesPage(ctx context.Context, skip, limit int) (models.CandidatePage, error) {
	query := url.Values{
		"skip":  {strconv.Itoa(skip)},
		"limit": {strconv.Itoa(limit)},
	}
	body, err := c.get(ctx, "Failed to load candidates", "/candidates/paginated", query)
	if err != nil {
		return models.CandidatePage{}, err
	}

	var page models.CandidatePage
	if err := decode("Failed to load candidates", body, &page); err != nil {
		return models.CandidatePage{}, err
	}
	if page.Candidates == nil {
		page.Candidates = []models.Candidate{}
	}
	return page, nil
}

// Candidate fetches a single candidate by id
func (c *Client) Candidate(ctx context.Context, id int64) (models.Candidate, error) {
	body, err := c.get(ctx, "Failed to load candidate", "/candidates/"+models.FormatID(id), nil)
	if err != nil {
		return models.Candidate{}, err
	}
	var candidate models.Candidate
	if err := decode("Failed to load candidate", body, &candidate); err != nil {
		return models.Candidate{}, err
	}
	return candidate, nil
}

// Candidates fetches the whole candidate collection
func (c *Client) Candidates(ctx context.Context) ([]models.Candidate, error) {
	body, err := c.get(ctx, "Failed to load candidates", "/candidates/", nil)
	if err != nil {
		return nil, err
	}
	var candidates []models.Candidate
	if err := decode("Failed to load candidates", body, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// CreateCandidate posts a new candidate as multipart form data with an optional resume file
func (c *Client) CreateCandidate(ctx context.Context, input models.CandidateInput, resume *models.Upload) (models.Candidate, error) {
	const op = "Error saving candidate"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"CandidateName", input.CandidateName},
		{"TotalExperience", input.TotalExperience},
		{"SkillSet", input.SkillSet},
		{"CurrentOrganization", input.CurrentOrganization},
		{"NoticePeriod", input.NoticePeriod},
		{"ClientName", input.ClientName},
		{"ClientManagerName", input.ClientManagerName},
		{"Feedback", input.Feedback},
		{"Remarks", input.Remarks},
	}
	if input.InterviewerID != nil {
		fields = append(fields, [2]string{"InterviewerId", strconv.FormatInt(*input.InterviewerID, 10)})
	}
	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return models.Candidate{}, fmt.Errorf("%s: write field %s: %w", op, field[0], err)
		}
	}

	if resume != nil && resume.Content != nil {
		part, err := writer.CreateFormFile("resume", resume.Filename)
		if err != nil {
			return models.Candidate{}, fmt.Errorf("%s: create resume part: %w", op, err)
		}
		if _, err := io.Copy(part, resume.Content); err != nil {
			return models.Candidate{}, fmt.Errorf("%s: copy resume: %w", op, err)
		}
	}
	if err := writer.Close(); err != nil {
		return models.Candidate{}, fmt.Errorf("%s: close multipart body: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/candidates/", nil), &buf)
	if err != nil {
		return models.Candidate{}, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, op)
	if err != nil {
		return models.Candidate{}, err
	}
	return decodeCandidate(op, body)
}

// UpdateCandidate sends a JSON update. body is either models.CandidateInput or models.FeedbackInput.
func (c *Client) UpdateCandidate(ctx context.Context, id int64, body interface{}) (models.Candidate, error) {
	const op = "Error updating candidate"
	resp, err := c.sendJSON(ctx, op, http.MethodPut, "/candidates/"+models.FormatID(id), body)
	if err != nil {
		return models.Candidate{}, err
	}
	candidate, err := decodeCandidate(op, resp)
	if err != nil {
		return models.Candidate{}, err
	}
	if candidate.ID == 0 {
		candidate.ID = id
	}
	return candidate, nil
}

// ImportCandidates posts the mapped spreadsheet rows as one batch
func (c *Client) ImportCandidates(ctx context.Context, rows []models.ImportRow) error {
	_, err := c.sendJSON(ctx, "Failed to import Candidates", http.MethodPost, "/candidates/import", rows)
	return err
}

// decodeCandidate tolerates success bodies that are not a candidate record
func decodeCandidate(op string, body []byte) (models.Candidate, error) {
	var candidate models.Candidate
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return candidate, nil
	}
	if err := decode(op, body, &candidate); err != nil {
		return models.Candidate{}, err
	}
	return candidate, nil
}
