package domain

import "time"

// FollowUpMethod is the channel planned for a follow-up.
type FollowUpMethod string

const (
	FollowUpMethodEmail    FollowUpMethod = "email"
	FollowUpMethodPhone    FollowUpMethod = "phone"
	FollowUpMethodLinkedIn FollowUpMethod = "linkedin"
	FollowUpMethodInPerson FollowUpMethod = "in-person"
)

// FollowUp is a planned follow-up on an application. ReminderSent keeps the
// reminder sweep from notifying about the same follow-up twice.
type FollowUp struct {
	ID             string         `json:"_id" bson:"-"`
	JobID          string         `json:"jobId" bson:"jobId"`
	Company        string         `json:"company" bson:"company"`
	Position       string         `json:"position" bson:"position"`
	FollowUpDate   time.Time      `json:"followUpDate" bson:"followUpDate"`
	Method         FollowUpMethod `json:"method,omitempty" bson:"method,omitempty"`
	RecipientName  string         `json:"recipientName,omitempty" bson:"recipientName,omitempty"`
	RecipientEmail string         `json:"recipientEmail,omitempty" bson:"recipientEmail,omitempty"`
	Message        string         `json:"message,omitempty" bson:"message,omitempty"`
	Completed      bool           `json:"completed" bson:"completed"`
	CompletedDate  *time.Time     `json:"completedDate" bson:"completedDate"`
	ReminderSent   bool           `json:"reminderSent" bson:"reminderSent"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt" bson:"updatedAt"`
}

func (f *FollowUp) SetID(id string) { f.ID = id }

// FollowUpPatch is the set of fields a client may supply for a follow-up.
type FollowUpPatch struct {
	JobID          Optional[string]         `json:"jobId"`
	Company        Optional[string]         `json:"company"`
	Position       Optional[string]         `json:"position"`
	FollowUpDate   Optional[time.Time]      `json:"followUpDate"`
	Method         Optional[FollowUpMethod] `json:"method" validate:"omitempty,oneof=email phone linkedin in-person"`
	RecipientName  Optional[string]         `json:"recipientName"`
	RecipientEmail Optional[string]         `json:"recipientEmail"`
	Message        Optional[string]         `json:"message"`
	Completed      Optional[bool]           `json:"completed"`
	CompletedDate  Optional[*time.Time]     `json:"completedDate"`
	ReminderSent   Optional[bool]           `json:"reminderSent"`
}

// Changes returns the fields present in the patch. Dates sent without an
// offset are read in loc.
func (p *FollowUpPatch) Changes(loc *time.Location) Changes {
	c := Changes{}
	setOpt(c, "jobId", p.JobID)
	setOpt(c, "company", p.Company)
	setOpt(c, "position", p.Position)
	setOpt(c, "followUpDate", p.FollowUpDate.In(loc))
	setOpt(c, "method", p.Method)
	setOpt(c, "recipientName", p.RecipientName)
	setOpt(c, "recipientEmail", p.RecipientEmail)
	setOpt(c, "message", p.Message)
	setOpt(c, "completed", p.Completed)
	setOpt(c, "completedDate", p.CompletedDate.In(loc))
	setOpt(c, "reminderSent", p.ReminderSent)
	return c
}

// FollowUpFilter selects follow-ups. Nil fields do not constrain the result.
type FollowUpFilter struct {
	Completed    *bool
	ReminderSent *bool
	Date         *TimeRange
}

// Matches reports whether followUp satisfies the filter.
func (f FollowUpFilter) Matches(followUp *FollowUp) bool {
	return matchBool(f.Completed, followUp.Completed) &&
		matchBool(f.ReminderSent, followUp.ReminderSent) &&
		matchRange(f.Date, followUp.FollowUpDate)
}
