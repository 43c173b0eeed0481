package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/interviewportal/internal/apiclient"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/app/models/dto"
	"github.com/yigit/interviewportal/internal/app/repositories"
	"github.com/yigit/interviewportal/internal/app/services"
	"github.com/yigit/interviewportal/internal/app/views"
	"github.com/yigit/interviewportal/internal/candidateform"
	"github.com/yigit/interviewportal/internal/dashboard"
	"github.com/yigit/interviewportal/internal/importer"
	"github.com/yigit/interviewportal/internal/middleware"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
	"github.com/yigit/interviewportal/internal/pkg/auth"
	"github.com/yigit/interviewportal/internal/session"
)

const testCookie = "portal_session"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAPI struct {
	loginUser  models.SessionUser
	loginErr   error
	suggested  map[models.Role][]string
	page       models.CandidatePage
	pageErr    error
	candidates map[int64]models.Candidate
	calls      []string
	updateBody interface{}
	imported   [][]models.ImportRow
	known      map[string]bool
	password   string
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (models.SessionUser, error) {
	if f.loginErr != nil {
		return models.SessionUser{}, f.loginErr
	}
	return f.loginUser, nil
}

func (f *fakeAPI) UsersByRole(_ context.Context, role models.Role) ([]string, error) {
	return f.suggested[role], nil
}

func (f *fakeAPI) CandidatesPage(_ context.Context, skip, limit int) (models.CandidatePage, error) {
	f.calls = append(f.calls, "page")
	return f.page, f.pageErr
}

func (f *fakeAPI) CreateCandidate(_ context.Context, input models.CandidateInput, _ *models.Upload) (models.Candidate, error) {
	f.calls = append(f.calls, "create")
	return models.Candidate{ID: 50, CandidateName: input.CandidateName}, nil
}

func (f *fakeAPI) UpdateCandidate(_ context.Context, id int64, body interface{}) (models.Candidate, error) {
	f.calls = append(f.calls, "update")
	f.updateBody = body
	return models.Candidate{ID: id}, nil
}

func (f *fakeAPI) Candidate(_ context.Context, id int64) (models.Candidate, error) {
	f.calls = append(f.calls, "get")
	c, ok := f.candidates[id]
	if !ok {
		return models.Candidate{}, apperrors.ErrResourceNotFound
	}
	return c, nil
}

func (f *fakeAPI) Candidates(context.Context) ([]models.Candidate, error) {
	f.calls = append(f.calls, "all")
	return nil, apperrors.ErrAPIUnavailable
}

func (f *fakeAPI) Interviewers(context.Context) ([]models.Interviewer, error) {
	return []models.Interviewer{{ID: 3, InterviewerName: "Ravi", PrimarySkill: "Go"}}, nil
}

func (f *fakeAPI) ImportCandidates(_ context.Context, rows []models.ImportRow) error {
	f.imported = append(f.imported, rows)
	return nil
}

func (f *fakeAPI) CheckEmail(_ context.Context, address string) (bool, error) {
	return f.known[address], nil
}

func (f *fakeAPI) UpdatePassword(_ context.Context, _, password string) error {
	f.password = password
	return nil
}

type fakeImporter struct {
	count int
	err   error
}

func (f *fakeImporter) Import(_ context.Context, r io.Reader) (int, error) {
	_, _ = io.ReadAll(r)
	return f.count, f.err
}

type codeMailer struct {
	codes []string
}

func (m *codeMailer) SendResetCode(_, code string, _ time.Duration) error {
	m.codes = append(m.codes, code)
	return nil
}

type harness struct {
	router   *gin.Engine
	api      *fakeAPI
	sessions *session.Manager
	rows     *dashboard.RowCache
	imports  *fakeImporter
	mailer   *codeMailer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		api: &fakeAPI{
			suggested:  map[models.Role][]string{models.RoleAdmin: {"boss@x.com"}},
			candidates: map[int64]models.Candidate{},
			known:      map[string]bool{"john@x.com": true},
		},
		rows:    dashboard.NewRowCache(time.Hour),
		imports: &fakeImporter{count: 2},
		mailer:  &codeMailer{},
	}

	tokens := auth.NewJWTService(auth.JWTConfig{SecretKey: "k", SessionTTL: time.Hour, TokenIssuer: "test"})
	h.sessions = session.NewManager(tokens, session.NewMemoryStore(), zerolog.Nop())
	gate := middleware.NewSessionMiddleware(h.sessions, middleware.CookieConfig{Name: testCookie})

	engine := candidateform.NewEngine(h.api, []string{"Acme"}, zerolog.Nop())
	resets := services.NewPasswordResetService(h.api, repositories.NewMemoryResetTicketRepository(), h.mailer, 15*time.Minute, zerolog.Nop())

	authController := NewAuthController(h.api, h.sessions, gate, zerolog.Nop())
	passwordController := NewPasswordController(resets, false, zerolog.Nop())
	dashboardController := NewDashboardController(h.api, h.rows, h.imports, "http://api.test", 1<<20, zerolog.Nop())
	candidateController := NewCandidateController(engine, h.rows, 1<<20, zerolog.Nop())
	healthController := NewHealthController("http://api.test")

	tmpl, err := views.Templates()
	if err != nil {
		t.Fatalf("Templates: %v", err)
	}
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/", authController.ShowLogin)
	r.POST("/", authController.Login)
	r.POST("/logout", authController.Logout)
	r.GET("/forgot-password", passwordController.ShowForgot)
	r.POST("/forgot-password", passwordController.Forgot)
	r.GET("/verify", passwordController.ShowVerify)
	r.POST("/verify", passwordController.Verify)
	r.GET("/reset-password", passwordController.ShowReset)
	r.POST("/reset-password", passwordController.Reset)
	r.GET("/health", healthController.Health)
	r.GET("/api/session", gate.APISessionRequired(), healthController.Session)

	protected := r.Group("/", gate.SessionRequired())
	protected.GET("/dashboard", dashboardController.Show)
	protected.POST("/dashboard/import", dashboardController.Import)
	protected.GET("/candidates/new", gate.RoleRequired(models.RoleAdmin), candidateController.New)
	protected.POST("/candidates/new", gate.RoleRequired(models.RoleAdmin), candidateController.Create)
	protected.GET("/candidates/:id/edit", candidateController.Edit)
	protected.POST("/candidates/:id/edit", candidateController.Update)

	h.router = r
	return h
}

func (h *harness) login(t *testing.T, role models.Role) (string, models.SessionUser) {
	t.Helper()
	token, err := h.sessions.Issue(models.SessionUser{ID: 1, Email: "a@x.com", Role: role})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	user, err := h.sessions.Resolve(context.Background(), token.Value)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return token.Value, user
}

func (h *harness) do(method, target, token string, body io.Reader, contentType string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) postForm(target, token string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return h.do(http.MethodPost, target, token, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", cookies...)
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestShowLoginOffersSuggestions(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/", "", nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "boss@x.com") {
		t.Fatalf("unexpected login page %d: %s", rec.Code, rec.Body.String())
	}

	token, _ := h.login(t, models.RoleAdmin)
	rec = h.do(http.MethodGet, "/", token, nil, "")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("signed-in user not redirected: %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	h := newHarness(t)
	rec := h.postForm("/", "", url.Values{"email": {"a@x.com"}})
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), MsgLoginMissingFields) {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoginShowsServerMessage(t *testing.T) {
	h := newHarness(t)
	h.api.loginErr = &apiclient.APIError{Op: "Login failed", Status: 401, Detail: "Invalid credentials"}
	rec := h.postForm("/", "", url.Values{"email": {"a@x.com"}, "password": {"bad"}})
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "Invalid credentials") {
		t.Fatalf("unexpected response %d: %s", rec.Code, rec.Body.String())
	}

	h.api.loginErr = apperrors.ErrAPIUnavailable
	rec = h.postForm("/", "", url.Values{"email": {"a@x.com"}, "password": {"pw"}})
	if !strings.Contains(rec.Body.String(), MsgLoginNetwork) {
		t.Fatalf("network message missing: %s", rec.Body.String())
	}
}

func TestLoginStartsSessionAndLogoutRevokes(t *testing.T) {
	h := newHarness(t)
	h.api.loginUser = models.SessionUser{ID: 7, Email: "a@x.com", Role: "ADMIN"}

	rec := h.postForm("/", "", url.Values{"email": {" a@x.com "}, "password": {"pw"}})
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("login did not redirect: %d", rec.Code)
	}
	cookie := cookieNamed(rec, testCookie)
	if cookie == nil || cookie.Value == "" || !cookie.HttpOnly {
		t.Fatalf("session cookie not set: %+v", cookie)
	}
	user, err := h.sessions.Resolve(context.Background(), cookie.Value)
	if err != nil || user.Role != models.RoleAdmin {
		t.Fatalf("session does not resolve: %+v %v", user, err)
	}

	rec = h.do(http.MethodPost, "/logout", cookie.Value, nil, "")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("logout did not redirect: %d", rec.Code)
	}
	if _, err := h.sessions.Resolve(context.Background(), cookie.Value); err == nil {
		t.Fatalf("session still valid after logout")
	}
}

func TestLoginRefusesUnknownRole(t *testing.T) {
	h := newHarness(t)
	h.api.loginUser = models.SessionUser{ID: 7, Email: "a@x.com", Role: "guest"}
	rec := h.postForm("/", "", url.Values{"email": {"a@x.com"}, "password": {"pw"}})
	if rec.Code != http.StatusForbidden || cookieNamed(rec, testCookie) != nil {
		t.Fatalf("unknown role accepted: %d", rec.Code)
	}
}

func TestDashboardRendersRoleColumns(t *testing.T) {
	h := newHarness(t)
	h.api.page = models.CandidatePage{
		Candidates: []models.Candidate{
			{ID: 1, CandidateName: "Asha", ClientName: "Acme", ResumePath: "uploads\\asha.pdf"},
			{ID: 2, CandidateName: "Binu", ClientName: "Globex"},
		},
		TotalCount: 25,
	}

	token, _ := h.login(t, models.RoleAdmin)
	rec := h.do(http.MethodGet, "/dashboard?page=1&size=10", token, nil, "")
	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status %d", rec.Code)
	}
	for _, want := range []string{"Client Name", "+ Add Candidate", "http://api.test/uploads/asha.pdf", `title="asha.pdf"`, "11 - 20 of 25", "Page 2 of 3", "Edit candidate"} {
		if !strings.Contains(body, want) {
			t.Fatalf("admin dashboard missing %q", want)
		}
	}

	token, _ = h.login(t, models.RoleInterviewer)
	body = h.do(http.MethodGet, "/dashboard", token, nil, "").Body.String()
	if strings.Contains(body, "Client Name") || strings.Contains(body, "+ Add Candidate") {
		t.Fatalf("interviewer sees admin columns")
	}
	if !strings.Contains(body, "Add Feedback") || !strings.Contains(body, "Import Data") {
		t.Fatalf("interviewer actions missing")
	}
}

func TestDashboardSortsAndFiltersCurrentPage(t *testing.T) {
	h := newHarness(t)
	h.api.page = models.CandidatePage{
		Candidates: []models.Candidate{
			{ID: 1, CandidateName: "Asha", SkillSet: "Go"},
			{ID: 2, CandidateName: "Binu", SkillSet: "Java"},
			{ID: 3, CandidateName: "Chen", SkillSet: "Golang"},
		},
		TotalCount: 3,
	}
	token, _ := h.login(t, models.RoleAdmin)

	body := h.do(http.MethodGet, "/dashboard?sort=CandidateName&desc=true", token, nil, "").Body.String()
	if strings.Index(body, "Chen") > strings.Index(body, "Asha") {
		t.Fatalf("rows not sorted descending")
	}

	body = h.do(http.MethodGet, "/dashboard?filter_col=SkillSet&filter=go", token, nil, "").Body.String()
	if strings.Contains(body, "Binu") || !strings.Contains(body, "Chen") {
		t.Fatalf("filter not applied")
	}
	if len(h.api.calls) != 2 {
		t.Fatalf("expected one fetch per request, got %v", h.api.calls)
	}
}

func TestDashboardFetchFailureShowsEmptyGrid(t *testing.T) {
	h := newHarness(t)
	h.api.pageErr = apperrors.ErrAPIUnavailable
	token, _ := h.login(t, models.RoleAdmin)
	rec := h.do(http.MethodGet, "/dashboard", token, nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "No candidates found") {
		t.Fatalf("unexpected response %d", rec.Code)
	}
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = part.Write(content)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf, w.FormDataContentType()
}

func TestImportRedirectsWithFlash(t *testing.T) {
	h := newHarness(t)
	token, _ := h.login(t, models.RoleInterviewer)

	body, contentType := multipartBody(t, nil, "file", "candidates.xlsx", []byte("xlsx"))
	rec := h.do(http.MethodPost, "/dashboard/import?page=2&size=20", token, body, contentType)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != candidateform.DashboardURL(2, 20, importer.NoticeImported, "") {
		t.Fatalf("unexpected redirect %d %q", rec.Code, rec.Header().Get("Location"))
	}

	h.imports.err = errors.New("boom")
	body, contentType = multipartBody(t, nil, "file", "candidates.xlsx", []byte("xlsx"))
	rec = h.do(http.MethodPost, "/dashboard/import", token, body, contentType)
	if rec.Header().Get("Location") != candidateform.DashboardURL(0, 10, "", "Failed to import Candidates") {
		t.Fatalf("unexpected failure redirect %q", rec.Header().Get("Location"))
	}
}

func TestCreateCandidateValidationMakesNoCall(t *testing.T) {
	h := newHarness(t)
	token, _ := h.login(t, models.RoleAdmin)

	body, contentType := multipartBody(t, map[string]string{"CandidateName": "Asha"}, "", "", nil)
	rec := h.do(http.MethodPost, "/candidates/new?page=0&size=10", token, body, contentType)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Please Upload Resume") || !strings.Contains(rec.Body.String(), "Asha") {
		t.Fatalf("form not re-rendered with errors and values")
	}
	if len(h.api.calls) != 0 {
		t.Fatalf("API called on invalid form: %v", h.api.calls)
	}
}

func TestCreateCandidateSubmits(t *testing.T) {
	h := newHarness(t)
	token, _ := h.login(t, models.RoleAdmin)

	fields := map[string]string{
		"CandidateName":       "Asha",
		"TotalExperience":     "4",
		"SkillSet":            "Go",
		"CurrentOrganization": "Initech",
		"NoticePeriod":        "30 Days",
		"ClientName":          "Acme",
		"ClientManagerName":   "Mona",
		"Interviewer":         "3",
	}
	body, contentType := multipartBody(t, fields, "resume", "cv.pdf", []byte("%PDF"))
	rec := h.do(http.MethodPost, "/candidates/new?page=1&size=20", token, body, contentType)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != candidateform.DashboardURL(1, 20, candidateform.NoticeCreated, "") {
		t.Fatalf("unexpected response %d %q: %s", rec.Code, rec.Header().Get("Location"), rec.Body.String())
	}
}

func TestCreateCandidateOversizedUploadShowsOneMessage(t *testing.T) {
	h := newHarness(t)
	token, _ := h.login(t, models.RoleAdmin)

	body, contentType := multipartBody(t, map[string]string{"CandidateName": "Asha"}, "resume", "cv.pdf", bytes.Repeat([]byte("x"), 3<<20))
	rec := h.do(http.MethodPost, "/candidates/new", token, body, contentType)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
	page := rec.Body.String()
	if !strings.Contains(page, apperrors.ErrUploadTooLarge.Error()) {
		t.Fatalf("upload error not shown:\n%s", page)
	}
	if strings.Contains(page, "Please Enter Candidate Name") || strings.Contains(page, "Please Upload Resume") {
		t.Fatalf("field errors shown for an unreadable form")
	}
	if len(h.api.calls) != 0 {
		t.Fatalf("API called: %v", h.api.calls)
	}
}

func TestAdminEditSavesImportedRecordWithoutVerdict(t *testing.T) {
	h := newHarness(t)
	token, user := h.login(t, models.RoleAdmin)
	h.rows.Remember(user.SessionID, []models.Candidate{{
		ID: 7, CandidateName: "Asha", TotalExperience: "4", SkillSet: "Go", CurrentOrganization: "Initech",
		NoticePeriod: "45 Days", ClientName: "Globex", ClientManagerName: "Mona", Feedback: "Rejected", Remarks: "Weak",
	}})

	rec := h.postForm("/candidates/7/edit", token, url.Values{
		"CandidateName":       {"Asha"},
		"TotalExperience":     {"5"},
		"SkillSet":            {"Go"},
		"CurrentOrganization": {"Initech"},
		"NoticePeriod":        {"45 Days"},
		"ClientName":          {"Globex"},
		"ClientManagerName":   {"Mona"},
		"Interviewer":         {"3"},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("update status %d: %s", rec.Code, rec.Body.String())
	}
	body, ok := h.api.updateBody.(models.CandidateInput)
	if !ok || body.TotalExperience != "5" || body.ClientName != "Globex" {
		t.Fatalf("unexpected update body %#v", h.api.updateBody)
	}
	if body.Feedback != "" || body.Remarks != "" {
		t.Fatalf("admin save carried the cached verdict: %#v", body)
	}
}

func TestInterviewerCannotOpenCreateForm(t *testing.T) {
	h := newHarness(t)
	token, _ := h.login(t, models.RoleInterviewer)
	rec := h.do(http.MethodGet, "/candidates/new", token, nil, "")
	if rec.Code != http.StatusFound || !strings.HasPrefix(rec.Header().Get("Location"), "/dashboard?error=") {
		t.Fatalf("interviewer reached the create form: %d", rec.Code)
	}
}

func TestEditUsesHandedRowAndSendsFeedbackOnly(t *testing.T) {
	h := newHarness(t)
	token, user := h.login(t, models.RoleInterviewer)
	h.rows.Remember(user.SessionID, []models.Candidate{{ID: 5, CandidateName: "Asha", SkillSet: "Go"}})

	rec := h.do(http.MethodGet, "/candidates/5/edit?page=0&size=10", token, nil, "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), HeadingFeedback) || !strings.Contains(rec.Body.String(), "Asha") {
		t.Fatalf("unexpected edit page %d", rec.Code)
	}
	for _, call := range h.api.calls {
		if call == "get" {
			t.Fatalf("handed row ignored: %v", h.api.calls)
		}
	}

	rec = h.postForm("/candidates/5/edit?page=0&size=10", token, url.Values{
		"Feedback":      {"Selected"},
		"Remarks":       {"Strong"},
		"CandidateName": {"Hacked"},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("update status %d: %s", rec.Code, rec.Body.String())
	}
	feedback, ok := h.api.updateBody.(models.FeedbackInput)
	if !ok || feedback.Feedback != "Selected" || feedback.Remarks != "Strong" {
		t.Fatalf("unexpected update body %#v", h.api.updateBody)
	}
}

func TestEditMissingCandidateRedirects(t *testing.T) {
	h := newHarness(t)
	token, _ := h.login(t, models.RoleAdmin)
	rec := h.do(http.MethodGet, "/candidates/404/edit", token, nil, "")
	if rec.Code != http.StatusFound || !strings.HasPrefix(rec.Header().Get("Location"), "/dashboard?") {
		t.Fatalf("unexpected response %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPasswordResetFlow(t *testing.T) {
	h := newHarness(t)

	rec := h.postForm("/forgot-password", "", url.Values{"email": {"nobody@x.com"}})
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), services.MsgEmailUnknown) {
		t.Fatalf("unknown email accepted: %d", rec.Code)
	}

	rec = h.postForm("/forgot-password", "", url.Values{"email": {"john@x.com"}})
	ticket := cookieNamed(rec, ResetCookieName)
	if rec.Code != http.StatusFound || ticket == nil {
		t.Fatalf("reset not started: %d", rec.Code)
	}

	rec = h.do(http.MethodGet, "/verify", "", nil, "", ticket)
	if !strings.Contains(rec.Body.String(), "j***@x.com") {
		t.Fatalf("masked email missing")
	}

	rec = h.postForm("/verify", "", url.Values{"action": {"verify"}, "code": {"123456"}}, ticket)
	if !strings.Contains(rec.Body.String(), services.MsgCodeNotSent) {
		t.Fatalf("verify before send accepted: %s", rec.Body.String())
	}

	rec = h.postForm("/verify", "", url.Values{"action": {"send"}}, ticket)
	if rec.Code != http.StatusFound || len(h.mailer.codes) != 1 {
		t.Fatalf("code not sent: %d", rec.Code)
	}

	rec = h.do(http.MethodGet, "/reset-password", "", nil, "", ticket)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != VerifyPath {
		t.Fatalf("unverified ticket reached reset page")
	}

	rec = h.postForm("/verify", "", url.Values{"action": {"verify"}, "code": {h.mailer.codes[0]}}, ticket)
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != ResetPasswordPath {
		t.Fatalf("verification failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = h.postForm("/reset-password", "", url.Values{"password": {"secret1"}, "confirm_password": {"secret2"}}, ticket)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), services.MsgPasswordMismatch) {
		t.Fatalf("mismatch accepted: %d", rec.Code)
	}

	rec = h.postForm("/reset-password", "", url.Values{"password": {"secret1"}, "confirm_password": {"secret1"}}, ticket)
	if rec.Code != http.StatusFound || !strings.HasPrefix(rec.Header().Get("Location"), "/?notice=") {
		t.Fatalf("reset failed: %d", rec.Code)
	}
	if h.api.password != "secret1" {
		t.Fatalf("password not forwarded")
	}

	rec = h.do(http.MethodGet, "/verify", "", nil, "", ticket)
	if rec.Code != http.StatusFound || !strings.HasPrefix(rec.Header().Get("Location"), ForgotPasswordPath) {
		t.Fatalf("closed ticket still usable: %d", rec.Code)
	}
}

func TestHealthAndSession(t *testing.T) {
	h := newHarness(t)
	rec := h.do(http.MethodGet, "/health", "", nil, "")
	var health dto.HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil || health.Status != "ok" {
		t.Fatalf("unexpected health %s", rec.Body.String())
	}

	if rec := h.do(http.MethodGet, "/api/session", "", nil, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous session status %d", rec.Code)
	}

	token, _ := h.login(t, models.RoleInterviewer)
	rec = h.do(http.MethodGet, "/api/session", token, nil, "")
	var resp dto.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Role != models.RoleInterviewer || resp.Label != "Interviewer" {
		t.Fatalf("unexpected session %s", rec.Body.String())
	}
}
