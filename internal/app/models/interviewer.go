package models

// Interviewer is an entry of the interviewer directory
type Interviewer struct {
	ID              int64  `json:"id"`
	InterviewerName string `json:"InterviewerName"`
	PrimarySkill    string `json:"PrimarySkill"`
	Proficiency     int    `json:"Proficiency"`
}
