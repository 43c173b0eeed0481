package candidateform

import (
	"errors"
	"math"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/yigit/interviewportal/internal/app/models"
)

// FormErrorSet maps a field name to its validation message
type FormErrorSet map[string]string

// Values is the form state as posted by the browser
type Values struct {
	CandidateName       string `json:"CandidateName" form:"CandidateName"`
	TotalExperience     string `json:"TotalExperience" form:"TotalExperience"`
	SkillSet            string `json:"SkillSet" form:"SkillSet"`
	CurrentOrganization string `json:"CurrentOrganization" form:"CurrentOrganization"`
	NoticePeriod        string `json:"NoticePeriod" form:"NoticePeriod"`
	ClientName          string `json:"ClientName" form:"ClientName"`
	ClientManagerName   string `json:"ClientManagerName" form:"ClientManagerName"`
	Interviewer         string `json:"Interviewer" form:"Interviewer"`
	Feedback            string `json:"Feedback" form:"Feedback"`
	Remarks             string `json:"Remarks" form:"Remarks"`
	// Resume holds the uploaded file name; the content travels separately
	Resume string `json:"resume" form:"-"`
}

// ValuesFromCandidate pre-fills the form from a stored record
func ValuesFromCandidate(c models.Candidate) Values {
	v := Values{
		CandidateName:       c.CandidateName,
		TotalExperience:     c.TotalExperience.String(),
		SkillSet:            c.SkillSet,
		CurrentOrganization: c.CurrentOrganization,
		NoticePeriod:        c.NoticePeriod,
		ClientName:          c.ClientName,
		ClientManagerName:   c.ClientManagerName,
		Feedback:            c.Feedback,
		Remarks:             c.Remarks,
	}
	if c.InterviewerID != nil {
		v.Interviewer = strconv.FormatInt(*c.InterviewerID, 10)
	}
	return v
}

// Get returns the value of a field by name
func (v Values) Get(name string) string {
	switch name {
	case FieldCandidateName:
		return v.CandidateName
	case FieldTotalExperience:
		return v.TotalExperience
	case FieldSkillSet:
		return v.SkillSet
	case FieldCurrentOrganization:
		return v.CurrentOrganization
	case FieldNoticePeriod:
		return v.NoticePeriod
	case FieldClientName:
		return v.ClientName
	case FieldClientManagerName:
		return v.ClientManagerName
	case FieldInterviewer:
		return v.Interviewer
	case FieldFeedback:
		return v.Feedback
	case FieldRemarks:
		return v.Remarks
	case FieldResume:
		return v.Resume
	}
	return ""
}

func (v *Values) set(name, value string) {
	switch name {
	case FieldCandidateName:
		v.CandidateName = value
	case FieldTotalExperience:
		v.TotalExperience = value
	case FieldSkillSet:
		v.SkillSet = value
	case FieldCurrentOrganization:
		v.CurrentOrganization = value
	case FieldNoticePeriod:
		v.NoticePeriod = value
	case FieldClientName:
		v.ClientName = value
	case FieldClientManagerName:
		v.ClientManagerName = value
	case FieldInterviewer:
		v.Interviewer = value
	case FieldFeedback:
		v.Feedback = value
	case FieldRemarks:
		v.Remarks = value
	case FieldResume:
		v.Resume = value
	}
}

// Merge overlays the fields the user may edit in role and mode from posted onto base.
// Read-only and hidden fields keep the base value.
func Merge(base, posted Values, role models.Role, mode Mode) Values {
	merged := base
	for _, spec := range Layout(role, mode) {
		if spec.Editable() {
			merged.set(spec.Name, posted.Get(spec.Name))
		}
	}
	return merged
}

func (v Values) trimmed() Values {
	t := v
	for _, def := range fieldTable {
		t.set(def.name, strings.TrimSpace(v.Get(def.name)))
	}
	return t
}

// InterviewerID parses the selected interviewer, nil when none is chosen
func (v Values) InterviewerID() *int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(v.Interviewer), 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// CandidateInput converts the form into the full candidate body
func (v Values) CandidateInput() models.CandidateInput {
	return models.CandidateInput{
		CandidateName:       v.CandidateName,
		TotalExperience:     v.TotalExperience,
		SkillSet:            v.SkillSet,
		CurrentOrganization: v.CurrentOrganization,
		NoticePeriod:        v.NoticePeriod,
		ClientName:          v.ClientName,
		ClientManagerName:   v.ClientManagerName,
		InterviewerID:       v.InterviewerID(),
		Feedback:            v.Feedback,
		Remarks:             v.Remarks,
	}
}

// Choices are the accepted values of the select fields
type Choices struct {
	ClientNames   []string
	NoticePeriods []string
}

// withStored accepts the value a record already holds next to the offered ones.
// Imported records may carry values the form never offered.
func (c Choices) withStored(stored Values) Choices {
	return Choices{
		ClientNames:   appendMissing(c.ClientNames, stored.ClientName),
		NoticePeriods: appendMissing(c.NoticePeriods, stored.NoticePeriod),
	}
}

func appendMissing(list []string, value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return list
	}
	for _, item := range list {
		if item == value {
			return list
		}
	}
	out := make([]string, 0, len(list)+1)
	return append(append(out, list...), value)
}

// Validate checks the values for role and mode and collects every violation.
// An empty set means the form may be submitted.
func (v Values) Validate(role models.Role, mode Mode, choices Choices) FormErrorSet {
	t := v.trimmed()
	required := requiredSet(role, mode)

	var rules []*validation.FieldRules
	if required[FieldFeedback] {
		rules = append(rules,
			validation.Field(&t.Feedback,
				validation.Required.Error("Please Select Feedback"),
				validation.In(toAny(models.FeedbackValues)...).Error("Please Select Feedback")),
			validation.Field(&t.Remarks,
				requiredIf(required[FieldRemarks], "Please Enter Remarks")),
		)
	}

	if mode != ModeInterviewerEdit {
		rules = append(rules,
			validation.Field(&t.CandidateName,
				requiredIf(required[FieldCandidateName], "Please Enter Candidate Name")),
			validation.Field(&t.TotalExperience,
				requiredIf(required[FieldTotalExperience], "Please Enter Total Experience"),
				validation.By(nonNegativeNumber)),
			validation.Field(&t.SkillSet,
				requiredIf(required[FieldSkillSet], "Please Enter SkillSet")),
			validation.Field(&t.CurrentOrganization,
				requiredIf(required[FieldCurrentOrganization], "Please Enter Current Organization")),
			validation.Field(&t.NoticePeriod,
				requiredIf(required[FieldNoticePeriod], "Please Select Notice Period"),
				validation.In(toAny(choices.NoticePeriods)...).Error("Please Select Notice Period")),
			validation.Field(&t.ClientName,
				requiredIf(required[FieldClientName], "Please Select Client Name"),
				validation.In(toAny(choices.ClientNames)...).Error("Please Select Client Name")),
			validation.Field(&t.ClientManagerName,
				requiredIf(required[FieldClientManagerName], "Please Enter Client Manager Name")),
			validation.Field(&t.Interviewer,
				requiredIf(required[FieldInterviewer], "Please Select Interviewer"),
				validation.By(interviewerReference)),
			validation.Field(&t.Resume,
				requiredIf(required[FieldResume], "Please Upload Resume")),
		)
	}

	err := validation.ValidateStruct(&t, rules...)
	if err == nil {
		return nil
	}

	set := FormErrorSet{}
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for field, fieldErr := range fieldErrs {
			set[field] = fieldErr.Error()
		}
		return set
	}
	set["form"] = err.Error()
	return set
}

func requiredIf(condition bool, message string) validation.Rule {
	return validation.When(condition, validation.Required.Error(message))
}

func nonNegativeNumber(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return errors.New("Total Experience must be a non-negative number")
	}
	return nil
}

func interviewerReference(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return errors.New("Please Select Interviewer")
	}
	return nil
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
