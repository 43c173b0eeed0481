// Package candidateform validates and submits the candidate intake and edit form.
package candidateform

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/yigit/interviewportal/internal/apiclient"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
)

// Gateway is the part of the recruitment API the form needs
type Gateway interface {
	CreateCandidate(ctx context.Context, input models.CandidateInput, resume *models.Upload) (models.Candidate, error)
	UpdateCandidate(ctx context.Context, id int64, body interface{}) (models.Candidate, error)
	Candidate(ctx context.Context, id int64) (models.Candidate, error)
	Candidates(ctx context.Context) ([]models.Candidate, error)
	Interviewers(ctx context.Context) ([]models.Interviewer, error)
}

// Flash messages shown after a submission
const (
	NoticeCreated = "Form Submitted"
	NoticeUpdated = "Candidate updated successfully"
	FailureCreate = "Error saving candidate"
	FailureUpdate = "Error updating candidate"
)

// Engine runs form submissions against the API
type Engine struct {
	gateway     Gateway
	clientNames []string
	logger      zerolog.Logger
}

// NewEngine creates a form engine
func NewEngine(gateway Gateway, clientNames []string, logger zerolog.Logger) *Engine {
	return &Engine{
		gateway:     gateway,
		clientNames: clientNames,
		logger:      logger,
	}
}

// ClientNames returns the accepted client names
func (e *Engine) ClientNames() []string {
	return e.clientNames
}

// Submission is one submit attempt
type Submission struct {
	Mode   Mode
	Role   models.Role
	ID     int64
	Values Values
	// Stored is the record an edit started from
	Stored Values
	Resume *models.Upload
	// Page and Size are the dashboard position to return to
	Page int
	Size int
}

// Result is a successful submission
type Result struct {
	Candidate models.Candidate
	// Values is the form state after success: cleared on create, kept on edit
	Values   Values
	Notice   string
	Redirect string
}

// SubmitError is a failed API call. Message is safe to show to the user.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string { return e.Message }

func (e *SubmitError) Unwrap() error { return e.Err }

// Submit validates the values and, when they pass, creates or updates the candidate.
// Validation failures return a FormErrorSet and make no network call.
func (e *Engine) Submit(ctx context.Context, sub Submission) (*Result, FormErrorSet, error) {
	if !sub.Role.Authenticated() {
		return nil, nil, apperrors.ErrPermissionDenied
	}
	if sub.Mode.IsEdit() && sub.ID <= 0 {
		return nil, nil, apperrors.NewBadRequestError("missing candidate id")
	}

	choices := Choices{ClientNames: e.clientNames, NoticePeriods: models.NoticePeriods}
	if sub.Mode.IsEdit() {
		choices = choices.withStored(sub.Stored)
	}
	if errs := sub.Values.Validate(sub.Role, sub.Mode, choices); len(errs) > 0 {
		return nil, errs, nil
	}

	var (
		saved   models.Candidate
		err     error
		failure string
		notice  string
	)
	switch sub.Mode {
	case ModeCreate:
		failure, notice = FailureCreate, NoticeCreated
		saved, err = e.gateway.CreateCandidate(ctx, sub.Values.CandidateInput(), sub.Resume)
	case ModeAdminEdit:
		failure, notice = FailureUpdate, NoticeUpdated
		// the verdict belongs to the interviewer; an empty one is left out of the body
		input := sub.Values.CandidateInput()
		input.Feedback, input.Remarks = "", ""
		saved, err = e.gateway.UpdateCandidate(ctx, sub.ID, input)
	case ModeInterviewerEdit:
		failure, notice = FailureUpdate, NoticeUpdated
		saved, err = e.gateway.UpdateCandidate(ctx, sub.ID, models.FeedbackInput{
			Feedback: sub.Values.Feedback,
			Remarks:  sub.Values.Remarks,
		})
	default:
		return nil, nil, apperrors.NewBadRequestError(fmt.Sprintf("unknown form mode %q", sub.Mode))
	}

	if err != nil {
		e.logger.Error().Err(err).Str("mode", string(sub.Mode)).Int64("candidateId", sub.ID).Msg("Candidate submission failed")
		return nil, nil, &SubmitError{Message: userMessage(err, failure), Err: err}
	}

	values := sub.Values
	if sub.Mode == ModeCreate {
		values = Values{}
	}
	return &Result{
		Candidate: saved,
		Values:    values,
		Notice:    notice,
		Redirect:  DashboardURL(sub.Page, sub.Size, notice, ""),
	}, nil, nil
}

// userMessage prefers the server's own explanation over the generic failure text
func userMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// DashboardURL builds the dashboard location for a page with an optional flash
func DashboardURL(page, size int, notice, failure string) string {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	if notice != "" {
		query.Set("notice", notice)
	}
	if failure != "" {
		query.Set("error", failure)
	}
	return "/dashboard?" + query.Encode()
}

// Hydrate loads the record to edit. A record handed over by the dashboard wins;
// otherwise the single-record endpoint is tried, then a scan of the full collection.
func (e *Engine) Hydrate(ctx context.Context, id int64, handed *models.Candidate) (models.Candidate, error) {
	if handed != nil && handed.ID == id {
		return *handed, nil
	}

	candidate, err := e.gateway.Candidate(ctx, id)
	if err == nil {
		return candidate, nil
	}
	e.logger.Warn().Err(err).Int64("candidateId", id).Msg("Single candidate lookup failed, scanning full collection")

	all, listErr := e.gateway.Candidates(ctx)
	if listErr != nil {
		return models.Candidate{}, fmt.Errorf("load candidate %d: %w", id, listErr)
	}
	for _, c := range all {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Candidate{}, apperrors.ErrCandidateNotFound
}

// InterviewerOptions lists interviewers for the select. Failures yield an empty list.
func (e *Engine) InterviewerOptions(ctx context.Context) []Option {
	interviewers, err := e.gateway.Interviewers(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Could not load interviewers")
		return []Option{}
	}
	options := make([]Option, 0, len(interviewers))
	for _, in := range interviewers {
		label := in.InterviewerName
		if in.PrimarySkill != "" {
			label = fmt.Sprintf("%s (%s)", in.InterviewerName, in.PrimarySkill)
		}
		options = append(options, Option{Value: strconv.FormatInt(in.ID, 10), Label: label})
	}
	return options
}

// FieldView is a FieldSpec with its current value and error, ready for the renderer
type FieldView struct {
	FieldSpec
	Value string
	Error string
}

// Selected reports whether option is the current value
func (f FieldView) Selected(option Option) bool {
	return f.Value == option.Value
}

// SelectedLabel is the label of the current value for read-only selects
func (f FieldView) SelectedLabel() string {
	for _, option := range f.Options {
		if option.Value == f.Value {
			return option.Label
		}
	}
	return f.Value
}

// View lays out the visible fields for role and mode with values, errors and options
func (e *Engine) View(ctx context.Context, role models.Role, mode Mode, values Values, errs FormErrorSet) []FieldView {
	var views []FieldView
	for _, spec := range Layout(role, mode) {
		if !spec.Visible() {
			continue
		}
		switch spec.Name {
		case FieldClientName:
			spec.Options = withCurrent(stringOptions(e.clientNames), values.ClientName)
		case FieldNoticePeriod:
			spec.Options = withCurrent(spec.Options, values.NoticePeriod)
		case FieldInterviewer:
			spec.Options = e.InterviewerOptions(ctx)
		}
		views = append(views, FieldView{
			FieldSpec: spec,
			Value:     values.Get(spec.Name),
			Error:     errs[spec.Name],
		})
	}
	return views
}

// withCurrent keeps a stored value selectable even when it is no longer offered
func withCurrent(options []Option, current string) []Option {
	if current == "" {
		return options
	}
	for _, option := range options {
		if option.Value == current {
			return options
		}
	}
	out := make([]Option, 0, len(options)+1)
	return append(append(out, options...), Option{Value: current, Label: current})
}
