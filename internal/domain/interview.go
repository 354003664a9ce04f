package domain

import "time"

// InterviewType is the format of an interview.
type InterviewType string

const (
	InterviewTypePhone     InterviewType = "phone"
	InterviewTypeVideo     InterviewType = "video"
	InterviewTypeInPerson  InterviewType = "in-person"
	InterviewTypeTechnical InterviewType = "technical"
	InterviewTypePanel     InterviewType = "panel"
)

// Interview is a scheduled interview. JobID is a plain copy of a Job
// identifier; it is never checked or cleaned up when the job goes away.
type Interview struct {
	ID               string        `json:"_id" bson:"-"`
	JobID            string        `json:"jobId" bson:"jobId"`
	Company          string        `json:"company" bson:"company"`
	Position         string        `json:"position" bson:"position"`
	InterviewDate    time.Time     `json:"interviewDate" bson:"interviewDate"`
	InterviewTime    string        `json:"interviewTime" bson:"interviewTime"`
	InterviewType    InterviewType `json:"interviewType,omitempty" bson:"interviewType,omitempty"`
	Location         string        `json:"location,omitempty" bson:"location,omitempty"`
	MeetingLink      string        `json:"meetingLink,omitempty" bson:"meetingLink,omitempty"`
	InterviewerName  string        `json:"interviewerName,omitempty" bson:"interviewerName,omitempty"`
	InterviewerEmail string        `json:"interviewerEmail,omitempty" bson:"interviewerEmail,omitempty"`
	Notes            string        `json:"notes,omitempty" bson:"notes,omitempty"`
	Preparation      string        `json:"preparation,omitempty" bson:"preparation,omitempty"`
	Completed        bool          `json:"completed" bson:"completed"`
	ReminderSent     bool          `json:"reminderSent,omitempty" bson:"reminderSent,omitempty"`
	CreatedAt        time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt" bson:"updatedAt"`
}

func (i *Interview) SetID(id string) { i.ID = id }

// InterviewPatch is the set of fields a client may supply for an interview.
type InterviewPatch struct {
	JobID            Optional[string]        `json:"jobId"`
	Company          Optional[string]        `json:"company"`
	Position         Optional[string]        `json:"position"`
	InterviewDate    Optional[time.Time]     `json:"interviewDate"`
	InterviewTime    Optional[string]        `json:"interviewTime"`
	InterviewType    Optional[InterviewType] `json:"interviewType" validate:"omitempty,oneof=phone video in-person technical panel"`
	Location         Optional[string]        `json:"location"`
	MeetingLink      Optional[string]        `json:"meetingLink"`
	InterviewerName  Optional[string]        `json:"interviewerName"`
	InterviewerEmail Optional[string]        `json:"interviewerEmail"`
	Notes            Optional[string]        `json:"notes"`
	Preparation      Optional[string]        `json:"preparation"`
	Completed        Optional[bool]          `json:"completed"`
}

// Changes returns the fields present in the patch. Dates sent without an
// offset are read in loc.
func (p *InterviewPatch) Changes(loc *time.Location) Changes {
	c := Changes{}
	setOpt(c, "jobId", p.JobID)
	setOpt(c, "company", p.Company)
	setOpt(c, "position", p.Position)
	setOpt(c, "interviewDate", p.InterviewDate.In(loc))
	setOpt(c, "interviewTime", p.InterviewTime)
	setOpt(c, "interviewType", p.InterviewType)
	setOpt(c, "location", p.Location)
	setOpt(c, "meetingLink", p.MeetingLink)
	setOpt(c, "interviewerName", p.InterviewerName)
	setOpt(c, "interviewerEmail", p.InterviewerEmail)
	setOpt(c, "notes", p.Notes)
	setOpt(c, "preparation", p.Preparation)
	setOpt(c, "completed", p.Completed)
	return c
}

// InterviewFilter selects interviews. Nil fields do not constrain the result.
type InterviewFilter struct {
	Completed    *bool
	ReminderSent *bool
	Date         *TimeRange
}

// Matches reports whether interview satisfies the filter.
func (f InterviewFilter) Matches(interview *Interview) bool {
	return matchBool(f.Completed, interview.Completed) &&
		matchBool(f.ReminderSent, interview.ReminderSent) &&
		matchRange(f.Date, interview.InterviewDate)
}
