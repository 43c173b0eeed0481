package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/app/views"
	"github.com/yigit/interviewportal/internal/candidateform"
	"github.com/yigit/interviewportal/internal/dashboard"
	"github.com/yigit/interviewportal/internal/middleware"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
	"github.com/yigit/interviewportal/internal/pkg/helpers"
)

// FailureBind is shown when the posted form cannot be read at all
const FailureBind = "The form could not be read. Please try again."

// Form headings
const (
	HeadingCreate   = "Add Candidate"
	HeadingEdit     = "Edit Candidate"
	HeadingFeedback = "Add Feedback"
)

// CandidateController handles the candidate intake and edit form
type CandidateController struct {
	engine    *candidateform.Engine
	rows      *dashboard.RowCache
	maxUpload int64
	logger    zerolog.Logger
}

// NewCandidateController creates a new CandidateController
func NewCandidateController(engine *candidateform.Engine, rows *dashboard.RowCache, maxUpload int64, logger zerolog.Logger) *CandidateController {
	return &CandidateController{
		engine:    engine,
		rows:      rows,
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// editMode is the form mode the role edits in
func editMode(role models.Role) candidateform.Mode {
	if role == models.RoleInterviewer {
		return candidateform.ModeInterviewerEdit
	}
	return candidateform.ModeAdminEdit
}

type formPage struct {
	status  int
	heading string
	action  string
	submit  string
	mode    candidateform.Mode
	values  candidateform.Values
	errs    candidateform.FormErrorSet
	failure string
}

func (c *CandidateController) render(ctx *gin.Context, user models.SessionUser, page, size int, p formPage) {
	ctx.HTML(p.status, views.CandidateFormPage, gin.H{
		"Title":     p.heading,
		"User":      user,
		"Heading":   p.heading,
		"Action":    p.action + "?page=" + strconv.Itoa(page) + "&size=" + strconv.Itoa(size),
		"Multipart": p.mode == candidateform.ModeCreate,
		"Fields":    c.engine.View(ctx.Request.Context(), user.Role, p.mode, p.values, p.errs),
		"Submit":    p.submit,
		"CancelURL": candidateform.DashboardURL(page, size, "", ""),
		"Error":     p.failure,
	})
}

// bindFailed re-renders the form with a single message when the body could not be decoded
func (c *CandidateController) bindFailed(ctx *gin.Context, user models.SessionUser, err error, values candidateform.Values, p formPage) {
	page, size := helpers.ParsePaginationParams(ctx)
	c.logger.Warn().Err(err).Str("mode", string(p.mode)).Msg("Failed to bind candidate form")

	p.status = http.StatusBadRequest
	p.values = values
	p.failure = FailureBind
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		p.status = http.StatusRequestEntityTooLarge
		p.failure = "Resume upload failed: " + apperrors.ErrUploadTooLarge.Error()
	}
	c.render(ctx, user, page, size, p)
}

// submit runs the engine and either redirects to the dashboard or re-renders the form
func (c *CandidateController) submit(ctx *gin.Context, user models.SessionUser, sub candidateform.Submission, p formPage) {
	result, errs, err := c.engine.Submit(ctx.Request.Context(), sub)
	switch {
	case err != nil:
		var submitErr *candidateform.SubmitError
		if !errors.As(err, &submitErr) {
			c.logger.Error().Err(err).Str("mode", string(sub.Mode)).Msg("Candidate form rejected")
			ctx.Redirect(http.StatusFound, candidateform.DashboardURL(sub.Page, sub.Size, "", middleware.UserMessage(err, candidateform.FailureUpdate)))
			return
		}
		p.status = http.StatusBadGateway
		p.values = sub.Values
		p.failure = submitErr.Message
		c.render(ctx, user, sub.Page, sub.Size, p)
	case len(errs) > 0:
		p.status = http.StatusBadRequest
		p.values = sub.Values
		p.errs = errs
		c.render(ctx, user, sub.Page, sub.Size, p)
	default:
		ctx.Redirect(http.StatusFound, result.Redirect)
	}
}

// New renders the empty intake form
func (c *CandidateController) New(ctx *gin.Context) {
	user, _ := middleware.CurrentUser(ctx)
	page, size := helpers.ParsePaginationParams(ctx)
	c.render(ctx, user, page, size, formPage{
		status:  http.StatusOK,
		heading: HeadingCreate,
		action:  "/candidates/new",
		submit:  "Submit",
		mode:    candidateform.ModeCreate,
	})
}

// Create submits the intake form with its resume
func (c *CandidateController) Create(ctx *gin.Context) {
	user, _ := middleware.CurrentUser(ctx)
	page, size := helpers.ParsePaginationParams(ctx)
	if c.maxUpload > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUpload+multipartOverhead)
	}

	create := formPage{
		heading: HeadingCreate,
		action:  "/candidates/new",
		submit:  "Submit",
		mode:    candidateform.ModeCreate,
	}

	var posted candidateform.Values
	if err := ctx.ShouldBind(&posted); err != nil {
		c.bindFailed(ctx, user, err, candidateform.Values{}, create)
		return
	}

	var resume *models.Upload
	if fileHeader, err := ctx.FormFile(candidateform.FieldResume); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded resume")
		} else {
			defer file.Close()
			posted.Resume = fileHeader.Filename
			resume = &models.Upload{Filename: fileHeader.Filename, Content: file}
		}
	}

	values := candidateform.Merge(candidateform.Values{}, posted, user.Role, candidateform.ModeCreate)
	c.submit(ctx, user, candidateform.Submission{
		Mode:   candidateform.ModeCreate,
		Role:   user.Role,
		Values: values,
		Resume: resume,
		Page:   page,
		Size:   size,
	}, create)
}

// load resolves the :id parameter to a record, preferring the row the dashboard showed
func (c *CandidateController) load(ctx *gin.Context, user models.SessionUser) (models.Candidate, bool) {
	page, size := helpers.ParsePaginationParams(ctx)
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		ctx.Redirect(http.StatusFound, candidateform.DashboardURL(page, size, "", "Invalid candidate id"))
		return models.Candidate{}, false
	}

	candidate, err := c.engine.Hydrate(ctx.Request.Context(), id, c.rows.Lookup(user.SessionID, id))
	if err != nil {
		c.logger.Warn().Err(err).Int64("candidateId", id).Msg("Failed to load candidate for editing")
		message := "Error loading candidate"
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			message = middleware.UserMessage(err, "Candidate not found")
		}
		ctx.Redirect(http.StatusFound, candidateform.DashboardURL(page, size, "", message))
		return models.Candidate{}, false
	}
	return candidate, true
}

func editPage(user models.SessionUser, id int64) formPage {
	p := formPage{
		heading: HeadingEdit,
		action:  "/candidates/" + strconv.FormatInt(id, 10) + "/edit",
		submit:  "Update",
		mode:    editMode(user.Role),
	}
	if p.mode == candidateform.ModeInterviewerEdit {
		p.heading = HeadingFeedback
		p.submit = "Submit Feedback"
	}
	return p
}

// Edit renders the edit form for the role: full profile for admins, verdict for interviewers
func (c *CandidateController) Edit(ctx *gin.Context) {
	user, _ := middleware.CurrentUser(ctx)
	candidate, ok := c.load(ctx, user)
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	p := editPage(user, candidate.ID)
	p.status = http.StatusOK
	p.values = candidateform.ValuesFromCandidate(candidate)
	c.render(ctx, user, page, size, p)
}

// Update submits the edit form
func (c *CandidateController) Update(ctx *gin.Context) {
	user, _ := middleware.CurrentUser(ctx)
	candidate, ok := c.load(ctx, user)
	if !ok {
		return
	}

	p := editPage(user, candidate.ID)
	stored := candidateform.ValuesFromCandidate(candidate)
	var posted candidateform.Values
	if err := ctx.ShouldBind(&posted); err != nil {
		c.bindFailed(ctx, user, err, stored, p)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	c.submit(ctx, user, candidateform.Submission{
		Mode:   p.mode,
		Role:   user.Role,
		ID:     candidate.ID,
		Values: candidateform.Merge(stored, posted, user.Role, p.mode),
		Stored: stored,
		Page:   page,
		Size:   size,
	}, p)
}
