package candidateform

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/interviewportal/internal/apiclient"
	"github.com/yigit/interviewportal/internal/app/models"
	"github.com/yigit/interviewportal/internal/pkg/apperrors"
)

type fakeGateway struct {
	calls        []string
	createInput  models.CandidateInput
	updateBody   interface{}
	err          error
	single       map[int64]models.Candidate
	singleErr    error
	all          []models.Candidate
	interviewers []models.Interviewer
}

func (f *fakeGateway) CreateCandidate(_ context.Context, input models.CandidateInput, _ *models.Upload) (models.Candidate, error) {
	f.calls = append(f.calls, "create")
	f.createInput = input
	return models.Candidate{ID: 99, CandidateName: input.CandidateName}, f.err
}

func (f *fakeGateway) UpdateCandidate(_ context.Context, id int64, body interface{}) (models.Candidate, error) {
	f.calls = append(f.calls, "update")
	f.updateBody = body
	return models.Candidate{ID: id}, f.err
}

func (f *fakeGateway) Candidate(_ context.Context, id int64) (models.Candidate, error) {
	f.calls = append(f.calls, "get")
	if f.singleErr != nil {
		return models.Candidate{}, f.singleErr
	}
	c, ok := f.single[id]
	if !ok {
		return models.Candidate{}, apperrors.ErrResourceNotFound
	}
	return c, nil
}

func (f *fakeGateway) Candidates(context.Context) ([]models.Candidate, error) {
	f.calls = append(f.calls, "list")
	return f.all, nil
}

func (f *fakeGateway) Interviewers(context.Context) ([]models.Interviewer, error) {
	if f.interviewers == nil {
		return nil, errors.New("down")
	}
	return f.interviewers, nil
}

func newEngine(gw *fakeGateway) *Engine {
	return NewEngine(gw, []string{"Client A", "Client B"}, zerolog.Nop())
}

func completeValues() Values {
	return Values{
		CandidateName:       "Asha",
		TotalExperience:     "4",
		SkillSet:            "Go",
		CurrentOrganization: "Acme",
		NoticePeriod:        "30 Days",
		ClientName:          "Client A",
		ClientManagerName:   "Mira",
		Interviewer:         "3",
		Resume:              "cv.pdf",
	}
}

func TestSubmitAdminCreateEmptyAccumulatesErrors(t *testing.T) {
	gw := &fakeGateway{}
	_, errs, err := newEngine(gw).Submit(context.Background(), Submission{Mode: ModeCreate, Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	for _, field := range []string{FieldCandidateName, FieldTotalExperience, FieldSkillSet, FieldCurrentOrganization, FieldNoticePeriod, FieldInterviewer, FieldResume} {
		if errs[field] == "" {
			t.Fatalf("missing error for %s in %v", field, errs)
		}
	}
	if errs[FieldCandidateName] != "Please Enter Candidate Name" {
		t.Fatalf("unexpected message %q", errs[FieldCandidateName])
	}
	if _, ok := errs[FieldFeedback]; ok {
		t.Fatalf("admin must not be asked for feedback: %v", errs)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("validation failure made calls %v", gw.calls)
	}
}

func TestSubmitWhitespaceIsEmpty(t *testing.T) {
	values := completeValues()
	values.CandidateName = "   "
	_, errs, _ := newEngine(&fakeGateway{}).Submit(context.Background(), Submission{Mode: ModeCreate, Role: models.RoleAdmin, Values: values})
	if errs[FieldCandidateName] == "" {
		t.Fatalf("whitespace name accepted")
	}
}

func TestSubmitRejectsBadEnumsAndNumbers(t *testing.T) {
	values := completeValues()
	values.NoticePeriod = "45 Days"
	values.TotalExperience = "-2"
	values.ClientName = "Client Z"
	_, errs, _ := newEngine(&fakeGateway{}).Submit(context.Background(), Submission{Mode: ModeCreate, Role: models.RoleAdmin, Values: values})
	for _, field := range []string{FieldNoticePeriod, FieldTotalExperience, FieldClientName} {
		if errs[field] == "" {
			t.Fatalf("expected error for %s, got %v", field, errs)
		}
	}
}

func TestSubmitCreateResetsValues(t *testing.T) {
	gw := &fakeGateway{}
	result, errs, err := newEngine(gw).Submit(context.Background(), Submission{
		Mode: ModeCreate, Role: models.RoleAdmin, Values: completeValues(), Page: 2, Size: 20,
	})
	if err != nil || len(errs) > 0 {
		t.Fatalf("Submit: %v %v", err, errs)
	}
	if result.Values != (Values{}) {
		t.Fatalf("values not reset: %+v", result.Values)
	}
	if gw.createInput.InterviewerID == nil || *gw.createInput.InterviewerID != 3 {
		t.Fatalf("interviewer id not sent: %+v", gw.createInput)
	}
	if !strings.Contains(result.Redirect, "page=2") || !strings.Contains(result.Redirect, "size=20") {
		t.Fatalf("redirect lost position: %s", result.Redirect)
	}
}

func TestSubmitInterviewerEditSendsOnlyVerdict(t *testing.T) {
	gw := &fakeGateway{}
	sub := Submission{
		Mode: ModeInterviewerEdit, Role: models.RoleInterviewer, ID: 5,
		Values: Values{Feedback: "Selected", Remarks: "Strong"},
	}
	result, errs, err := newEngine(gw).Submit(context.Background(), sub)
	if err != nil || len(errs) > 0 {
		t.Fatalf("Submit: %v %v", err, errs)
	}
	body, ok := gw.updateBody.(models.FeedbackInput)
	if !ok || body.Feedback != "Selected" || body.Remarks != "Strong" {
		t.Fatalf("unexpected body %#v", gw.updateBody)
	}
	if result.Values.Feedback != "Selected" {
		t.Fatalf("edit values should be kept: %+v", result.Values)
	}
}

func TestSubmitInterviewerEditRequiresVerdict(t *testing.T) {
	gw := &fakeGateway{}
	_, errs, _ := newEngine(gw).Submit(context.Background(), Submission{Mode: ModeInterviewerEdit, Role: models.RoleInterviewer, ID: 5})
	if len(errs) != 2 || errs[FieldFeedback] != "Please Select Feedback" || errs[FieldRemarks] != "Please Enter Remarks" {
		t.Fatalf("unexpected errors %v", errs)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("unexpected calls %v", gw.calls)
	}
}

func TestSubmitAdminEditSendsFullRecord(t *testing.T) {
	gw := &fakeGateway{}
	values := completeValues()
	values.Resume = ""
	_, errs, err := newEngine(gw).Submit(context.Background(), Submission{Mode: ModeAdminEdit, Role: models.RoleAdmin, ID: 8, Values: values})
	if err != nil || len(errs) > 0 {
		t.Fatalf("Submit: %v %v", err, errs)
	}
	if body, ok := gw.updateBody.(models.CandidateInput); !ok || body.CandidateName != "Asha" {
		t.Fatalf("unexpected body %#v", gw.updateBody)
	}
}

func TestSubmitFailureUsesServerDetail(t *testing.T) {
	gw := &fakeGateway{err: &apiclient.APIError{Op: FailureCreate, Status: 400, Detail: "Duplicate candidate"}}
	_, _, err := newEngine(gw).Submit(context.Background(), Submission{Mode: ModeCreate, Role: models.RoleAdmin, Values: completeValues()})
	var submitErr *SubmitError
	if !errors.As(err, &submitErr) || submitErr.Message != "Duplicate candidate" {
		t.Fatalf("unexpected error %v", err)
	}

	gw = &fakeGateway{err: apperrors.ErrAPIUnavailable}
	_, _, err = newEngine(gw).Submit(context.Background(), Submission{Mode: ModeAdminEdit, Role: models.RoleAdmin, ID: 1, Values: completeValues()})
	if !errors.As(err, &submitErr) || submitErr.Message != FailureUpdate {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSubmitRequiresRole(t *testing.T) {
	_, _, err := newEngine(&fakeGateway{}).Submit(context.Background(), Submission{Mode: ModeCreate, Role: models.RoleNone, Values: completeValues()})
	if !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestHydratePrefersHandOffThenSingleThenScan(t *testing.T) {
	gw := &fakeGateway{
		single: map[int64]models.Candidate{4: {ID: 4, CandidateName: "Single"}},
		all:    []models.Candidate{{ID: 6, CandidateName: "Scanned"}},
	}
	engine := newEngine(gw)

	got, err := engine.Hydrate(context.Background(), 2, &models.Candidate{ID: 2, CandidateName: "Handed"})
	if err != nil || got.CandidateName != "Handed" || len(gw.calls) != 0 {
		t.Fatalf("hand-off not used: %+v %v %v", got, err, gw.calls)
	}

	got, err = engine.Hydrate(context.Background(), 4, nil)
	if err != nil || got.CandidateName != "Single" {
		t.Fatalf("single lookup: %+v %v", got, err)
	}

	got, err = engine.Hydrate(context.Background(), 6, nil)
	if err != nil || got.CandidateName != "Scanned" {
		t.Fatalf("scan fallback: %+v %v", got, err)
	}

	if _, err := engine.Hydrate(context.Background(), 7, nil); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLayoutMatrix(t *testing.T) {
	byName := func(specs []FieldSpec) map[string]FieldSpec {
		out := map[string]FieldSpec{}
		for _, s := range specs {
			out[s.Name] = s
		}
		return out
	}

	admin := byName(Layout(models.RoleAdmin, ModeCreate))
	if !admin[FieldCandidateName].Editable() || !admin[FieldCandidateName].Required {
		t.Fatalf("admin profile must be editable and required")
	}
	if !admin[FieldInterviewer].Editable() || admin[FieldFeedback].Visible() {
		t.Fatalf("admin assignment/verdict visibility wrong")
	}

	interviewer := byName(Layout(models.RoleInterviewer, ModeInterviewerEdit))
	if interviewer[FieldCandidateName].Access != ReadOnly || interviewer[FieldInterviewer].Visible() {
		t.Fatalf("interviewer profile must be read-only, interviewer select hidden")
	}
	if !interviewer[FieldFeedback].Editable() || !interviewer[FieldRemarks].Required {
		t.Fatalf("interviewer verdict must be editable and required")
	}

	for _, spec := range Layout(models.RoleNone, ModeCreate) {
		if spec.Visible() {
			t.Fatalf("%s visible for no role", spec.Name)
		}
	}
}

func TestMergeKeepsReadOnlyFields(t *testing.T) {
	base := ValuesFromCandidate(models.Candidate{CandidateName: "Stored", Feedback: "Rejected"})
	posted := Values{CandidateName: "Tampered", Feedback: "Selected", Remarks: "Good"}

	merged := Merge(base, posted, models.RoleInterviewer, ModeInterviewerEdit)
	if merged.CandidateName != "Stored" || merged.Feedback != "Selected" || merged.Remarks != "Good" {
		t.Fatalf("unexpected merge %+v", merged)
	}

	adminMerged := Merge(base, posted, models.RoleAdmin, ModeAdminEdit)
	if adminMerged.CandidateName != "Tampered" || adminMerged.Feedback != "Rejected" {
		t.Fatalf("admin merge must keep hidden verdict: %+v", adminMerged)
	}
}

func TestViewOptions(t *testing.T) {
	gw := &fakeGateway{interviewers: []models.Interviewer{{ID: 3, InterviewerName: "Ravi", PrimarySkill: "Go"}}}
	views := newEngine(gw).View(context.Background(), models.RoleAdmin, ModeAdminEdit, Values{ClientName: "Legacy"}, FormErrorSet{FieldSkillSet: "Please Enter SkillSet"})

	found := map[string]FieldView{}
	for _, v := range views {
		found[v.Name] = v
	}
	if len(found[FieldInterviewer].Options) != 1 || found[FieldInterviewer].Options[0].Label != "Ravi (Go)" {
		t.Fatalf("interviewer options %v", found[FieldInterviewer].Options)
	}
	if opts := found[FieldClientName].Options; opts[len(opts)-1].Value != "Legacy" {
		t.Fatalf("stored client name not offered: %v", opts)
	}
	if found[FieldSkillSet].Error == "" {
		t.Fatalf("error not attached")
	}
	if _, ok := found[FieldResume]; ok {
		t.Fatalf("resume must be hidden on edit")
	}

	empty := newEngine(&fakeGateway{}).InterviewerOptions(context.Background())
	if empty == nil || len(empty) != 0 {
		t.Fatalf("failed interviewer fetch should give an empty list")
	}
}

func TestSubmitAdminEditKeepsImportedChoices(t *testing.T) {
	gw := &fakeGateway{}
	stored := completeValues()
	stored.Resume = ""
	stored.ClientName = "Globex"
	stored.NoticePeriod = "45 Days"
	engine := newEngine(gw)

	views := engine.View(context.Background(), models.RoleAdmin, ModeAdminEdit, stored, nil)
	for _, v := range views {
		if v.Name == FieldNoticePeriod || v.Name == FieldClientName {
			if opts := v.Options; opts[len(opts)-1].Value != v.Value {
				t.Fatalf("stored %s not offered: %v", v.Name, opts)
			}
		}
	}

	_, errs, err := engine.Submit(context.Background(), Submission{
		Mode: ModeAdminEdit, Role: models.RoleAdmin, ID: 8, Values: stored, Stored: stored,
	})
	if err != nil || len(errs) > 0 {
		t.Fatalf("untouched imported record rejected: %v %v", err, errs)
	}
	if len(gw.calls) != 1 || gw.calls[0] != "update" {
		t.Fatalf("unexpected calls %v", gw.calls)
	}

	changed := stored
	changed.ClientName = "Initech"
	_, errs, _ = engine.Submit(context.Background(), Submission{
		Mode: ModeAdminEdit, Role: models.RoleAdmin, ID: 8, Values: changed, Stored: stored,
	})
	if errs[FieldClientName] != "Please Select Client Name" {
		t.Fatalf("unknown client name accepted: %v", errs)
	}
	if len(engine.ClientNames()) != 2 {
		t.Fatalf("configured client names changed: %v", engine.ClientNames())
	}
}

func TestSubmitAdminEditLeavesVerdictOut(t *testing.T) {
	gw := &fakeGateway{}
	base := ValuesFromCandidate(models.Candidate{
		CandidateName: "Asha", TotalExperience: "4", SkillSet: "Go", CurrentOrganization: "Acme",
		NoticePeriod: "30 Days", ClientName: "Client A", Feedback: "Rejected", Remarks: "Weak",
	})
	posted := completeValues()
	values := Merge(base, posted, models.RoleAdmin, ModeAdminEdit)
	if values.Feedback != "Rejected" {
		t.Fatalf("merge should keep the hidden verdict: %+v", values)
	}

	_, errs, err := newEngine(gw).Submit(context.Background(), Submission{
		Mode: ModeAdminEdit, Role: models.RoleAdmin, ID: 7, Values: values, Stored: base,
	})
	if err != nil || len(errs) > 0 {
		t.Fatalf("Submit: %v %v", err, errs)
	}
	body, ok := gw.updateBody.(models.CandidateInput)
	if !ok || body.Feedback != "" || body.Remarks != "" {
		t.Fatalf("admin update carried a verdict: %#v", gw.updateBody)
	}
}

func TestTotalExperienceRejectsNonFinite(t *testing.T) {
	for _, raw := range []string{"NaN", "Inf", "-Inf", "+Inf", "abc", "-0.5"} {
		values := completeValues()
		values.TotalExperience = raw
		errs := values.Validate(models.RoleAdmin, ModeCreate, Choices{ClientNames: []string{"Client A"}, NoticePeriods: models.NoticePeriods})
		if errs[FieldTotalExperience] == "" {
			t.Fatalf("%q accepted as total experience", raw)
		}
	}
	values := completeValues()
	values.TotalExperience = "2.5"
	if errs := values.Validate(models.RoleAdmin, ModeCreate, Choices{ClientNames: []string{"Client A"}, NoticePeriods: models.NoticePeriods}); len(errs) > 0 {
		t.Fatalf("2.5 rejected: %v", errs)
	}
}
