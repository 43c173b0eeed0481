package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/app/models/dto"
	"github.com/yigit/interviewportal/internal/app/views"
	"github.com/yigit/interviewportal/internal/candidateform"
	"github.com/yigit/interviewportal/internal/dashboard"
	"github.com/yigit/interviewportal/internal/importer"
	"github.com/yigit/interviewportal/internal/middleware"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
	"github.com/yigit/interviewportal/internal/pkg/helpers"
)

// Importer turns an uploaded workbook into one bulk import
type Importer interface {
	Import(ctx context.Context, r io.Reader) (int, error)
}

// multipartOverhead is allowed on top of the workbook limit for the form envelope
const multipartOverhead = 1 << 20

// DashboardController renders the candidate grid and handles workbook imports
type DashboardController struct {
	source     dashboard.PageSource
	rows       *dashboard.RowCache
	importer   Importer
	resumeBase string
	maxUpload  int64
	logger     zerolog.Logger
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(
	source dashboard.PageSource,
	rows *dashboard.RowCache,
	workbooks Importer,
	resumeBase string,
	maxUpload int64,
	logger zerolog.Logger,
) *DashboardController {
	return &DashboardController{
		source:     source,
		rows:       rows,
		importer:   workbooks,
		resumeBase: resumeBase,
		maxUpload:  maxUpload,
		logger:     logger,
	}
}

type headerView struct {
	Header  string
	SortURL string
	Active  bool
	Desc    bool
}

type cellView struct {
	Text    string
	EditURL string
	Title   string
	Link    string
}

type rowView struct {
	Cells []cellView
}

// gridQuery is the part of the URL that survives navigation
type gridQuery struct {
	sort      string
	desc      bool
	filterCol string
	filter    string
}

func (q gridQuery) url(st dashboard.State, sort string, desc bool) string {
	values := url.Values{}
	values.Set("page", strconv.Itoa(st.Index))
	values.Set("size", strconv.Itoa(st.Size))
	if sort != "" {
		values.Set("sort", sort)
		if desc {
			values.Set("desc", "true")
		}
	}
	if q.filter != "" {
		values.Set("filter_col", q.filterCol)
		values.Set("filter", q.filter)
	}
	return middleware.DashboardPath + "?" + values.Encode()
}

// EditURL is the edit page of a candidate, remembering the dashboard position
func EditURL(id int64, st dashboard.State) string {
	return "/candidates/" + strconv.FormatInt(id, 10) + "/edit?page=" + strconv.Itoa(st.Index) + "&size=" + strconv.Itoa(st.Size)
}

// Show renders one page of candidates
func (c *DashboardController) Show(ctx *gin.Context) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		ctx.Redirect(http.StatusFound, middleware.LoginPath)
		return
	}

	index, size := helpers.ParsePaginationParams(ctx)
	var query dto.DashboardQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		c.logger.Debug().Err(err).Msg("Ignoring malformed dashboard query")
		query = dto.DashboardQuery{}
	}

	page := dashboard.Fetch(ctx.Request.Context(), c.source, dashboard.NewState(index, size), c.logger)
	c.rows.Remember(user.SessionID, page.Rows)

	columns := dashboard.Columns(user.Role)
	var q gridQuery

	rows := page.Rows
	if col, found := dashboard.FindColumn(columns, query.FilterCol); found && col.Filterable {
		q.filterCol, q.filter = col.Key, query.Filter
		rows = dashboard.FilterRows(rows, col.Key, query.Filter)
	}
	if col, found := dashboard.FindColumn(columns, query.Sort); found && col.Sortable {
		q.sort, q.desc = col.Key, query.Desc
		rows = dashboard.SortRows(rows, col.Key, query.Desc)
	}

	headers := make([]headerView, 0, len(columns))
	for _, col := range columns {
		h := headerView{Header: col.Header}
		if col.Sortable {
			h.Active = col.Key == q.sort
			h.Desc = h.Active && q.desc
			h.SortURL = q.url(page.State, col.Key, h.Active && !q.desc)
		}
		headers = append(headers, h)
	}

	gridRows := make([]rowView, 0, len(rows))
	for _, candidate := range rows {
		cells := make([]cellView, 0, len(columns))
		for _, col := range columns {
			switch col.Key {
			case dashboard.ColumnAction:
				title := "Edit candidate"
				if user.Role == models.RoleInterviewer {
					title = "Add Feedback"
				}
				cells = append(cells, cellView{Text: "Edit", EditURL: EditURL(candidate.ID, page.State), Title: title})
			case dashboard.ColumnCandidateName:
				cells = append(cells, cellView{
					Text:  candidate.CandidateName,
					Link:  dashboard.ResumeURL(c.resumeBase, candidate.ResumePath),
					Title: dashboard.ResumeFileName(candidate.ResumePath),
				})
			default:
				cells = append(cells, cellView{Text: dashboard.Cell(candidate, col.Key)})
			}
		}
		gridRows = append(gridRows, rowView{Cells: cells})
	}

	filterCol := q.filterCol
	if filterCol == "" {
		filterCol = dashboard.ColumnID
	}

	st := page.State
	start, end := st.Window()
	data := gin.H{
		"Title":      "Dashboard",
		"User":       user,
		"Notice":     query.Notice,
		"Error":      query.Error,
		"CanAdd":     user.Role == models.RoleAdmin,
		"CanImport":  user.Role.Authenticated(),
		"State":      st,
		"Columns":    columns,
		"FilterCol":  filterCol,
		"Filter":     q.filter,
		"Sort":       q.sort,
		"Desc":       q.desc,
		"Headers":    headers,
		"Rows":       gridRows,
		"Sizes":      helpers.AllowedPageSizes,
		"Start":      start,
		"End":        end,
		"PageNumber": st.PageNumber(),
		"TotalPages": st.TotalPages(),
	}
	if st.CanPrev() {
		data["FirstURL"] = q.url(st.First(), q.sort, q.desc)
		data["PrevURL"] = q.url(st.Prev(), q.sort, q.desc)
	}
	if st.CanNext() {
		data["NextURL"] = q.url(st.Next(), q.sort, q.desc)
		data["LastURL"] = q.url(st.Last(), q.sort, q.desc)
	}

	ctx.HTML(http.StatusOK, views.DashboardPage, data)
}

// Import uploads a workbook and returns to the same dashboard page with a flash
func (c *DashboardController) Import(ctx *gin.Context) {
	index, size := helpers.ParsePaginationParams(ctx)
	if c.maxUpload > 0 {
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUpload+multipartOverhead)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		c.logger.Warn().Err(err).Msg("Import without a readable file")
		ctx.Redirect(http.StatusFound, candidateform.DashboardURL(index, size, "", apperrors.ErrImportFailed.Error()))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded workbook")
		ctx.Redirect(http.StatusFound, candidateform.DashboardURL(index, size, "", apperrors.ErrImportFailed.Error()))
		return
	}
	defer file.Close()

	count, err := c.importer.Import(ctx.Request.Context(), file)
	if err != nil {
		message := apperrors.ErrImportFailed.Error()
		if errors.Is(err, apperrors.ErrUploadTooLarge) {
			message += ": " + apperrors.ErrUploadTooLarge.Error()
		}
		ctx.Redirect(http.StatusFound, candidateform.DashboardURL(index, size, "", message))
		return
	}

	c.logger.Info().Int("rows", count).Str("filename", fileHeader.Filename).Msg("Workbook imported")
	ctx.Redirect(http.StatusFound, candidateform.DashboardURL(index, size, importer.NoticeImported, ""))
}
