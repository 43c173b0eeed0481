package candidateform

import (
	"github.com/yigit/interviewportal/internal/app/models"
)

// Mode selects which submission path and field rules apply
type Mode string

const (
	ModeCreate          Mode = "create"
	ModeAdminEdit       Mode = "admin-edit"
	ModeInterviewerEdit Mode = "interviewer-edit"
)

// IsEdit reports whether the mode updates an existing record
func (m Mode) IsEdit() bool {
	return m == ModeAdminEdit || m == ModeInterviewerEdit
}

// Field names double as form input names and API keys
const (
	FieldCandidateName       = "CandidateName"
	FieldTotalExperience     = "TotalExperience"
	FieldSkillSet            = "SkillSet"
	FieldCurrentOrganization = "CurrentOrganization"
	FieldNoticePeriod        = "NoticePeriod"
	FieldClientName          = "ClientName"
	FieldClientManagerName   = "ClientManagerName"
	FieldInterviewer         = "Interviewer"
	FieldFeedback            = "Feedback"
	FieldRemarks             = "Remarks"
	FieldResume              = "resume"
)

// Access is how a field is presented
type Access int

const (
	Hidden Access = iota
	ReadOnly
	Editable
)

// Control is the input widget rendered for a field
type Control string

const (
	ControlText     Control = "text"
	ControlNumber   Control = "number"
	ControlSelect   Control = "select"
	ControlTextarea Control = "textarea"
	ControlFile     Control = "file"
)

// Option is one choice of a select control
type Option struct {
	Value string
	Label string
}

// FieldSpec describes one row of the form for a role and mode
type FieldSpec struct {
	Name     string
	Label    string
	Control  Control
	Access   Access
	Required bool
	Options  []Option
}

// Visible reports whether the field is rendered at all
func (f FieldSpec) Visible() bool { return f.Access != Hidden }

// Editable reports whether the user may change the field
func (f FieldSpec) Editable() bool { return f.Access == Editable }

type group int

const (
	groupProfile group = iota
	groupAssignment
	groupVerdict
	groupResume
)

type fieldDef struct {
	name    string
	label   string
	control Control
	group   group
	options []Option
}

// fieldTable lists every field in display order
var fieldTable = []fieldDef{
	{FieldCandidateName, "Candidate Name", ControlText, groupProfile, nil},
	{FieldTotalExperience, "Total Experience", ControlNumber, groupProfile, nil},
	{FieldSkillSet, "Skill Set", ControlText, groupProfile, nil},
	{FieldCurrentOrganization, "Current Organization", ControlText, groupProfile, nil},
	{FieldNoticePeriod, "Notice Period", ControlSelect, groupProfile, stringOptions(models.NoticePeriods)},
	{FieldClientName, "Client Name", ControlSelect, groupProfile, nil},
	{FieldClientManagerName, "Client Manager Name", ControlText, groupProfile, nil},
	{FieldInterviewer, "Interviewer", ControlSelect, groupAssignment, nil},
	{FieldFeedback, "Feedback", ControlSelect, groupVerdict, stringOptions(models.FeedbackValues)},
	{FieldRemarks, "Remarks", ControlTextarea, groupVerdict, nil},
	{FieldResume, "Resume", ControlFile, groupResume, nil},
}

// accessTable is the role x mode visibility matrix, one entry per field group
var accessTable = map[models.Role]map[Mode]map[group]Access{
	models.RoleAdmin: {
		ModeCreate:          {groupProfile: Editable, groupAssignment: Editable, groupVerdict: Hidden, groupResume: Editable},
		ModeAdminEdit:       {groupProfile: Editable, groupAssignment: Editable, groupVerdict: Hidden, groupResume: Hidden},
		ModeInterviewerEdit: {groupProfile: ReadOnly, groupAssignment: Hidden, groupVerdict: Editable, groupResume: Hidden},
	},
	models.RoleInterviewer: {
		ModeCreate:          {groupProfile: ReadOnly, groupAssignment: Hidden, groupVerdict: Editable, groupResume: Editable},
		ModeAdminEdit:       {groupProfile: ReadOnly, groupAssignment: Hidden, groupVerdict: Editable, groupResume: Hidden},
		ModeInterviewerEdit: {groupProfile: ReadOnly, groupAssignment: Hidden, groupVerdict: Editable, groupResume: Hidden},
	},
}

// Layout returns the field specs for role and mode in display order.
// Unknown roles get every field hidden.
func Layout(role models.Role, mode Mode) []FieldSpec {
	required := requiredSet(role, mode)
	groups := accessTable[role][mode]

	specs := make([]FieldSpec, 0, len(fieldTable))
	for _, def := range fieldTable {
		access := Hidden
		if groups != nil {
			access = groups[def.group]
		}
		specs = append(specs, FieldSpec{
			Name:     def.name,
			Label:    def.label,
			Control:  def.control,
			Access:   access,
			Required: access != Hidden && required[def.name],
			Options:  def.options,
		})
	}
	return specs
}

// requiredSet lists the fields that must be non-empty on submit
func requiredSet(role models.Role, mode Mode) map[string]bool {
	if mode == ModeInterviewerEdit {
		return map[string]bool{FieldFeedback: true, FieldRemarks: true}
	}

	required := map[string]bool{
		FieldCandidateName:       true,
		FieldTotalExperience:     true,
		FieldSkillSet:            true,
		FieldCurrentOrganization: true,
		FieldNoticePeriod:        true,
		FieldClientName:          true,
		FieldClientManagerName:   true,
	}
	switch role {
	case models.RoleAdmin:
		required[FieldInterviewer] = true
	case models.RoleInterviewer:
		required[FieldFeedback] = true
		required[FieldRemarks] = true
	}
	if mode == ModeCreate {
		required[FieldResume] = true
	}
	return required
}

func stringOptions(values []string) []Option {
	options := make([]Option, 0, len(values))
	for _, v := range values {
		options = append(options, Option{Value: v, Label: v})
	}
	return options
}
