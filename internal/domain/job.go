package domain

import (
	"strings"
	"time"
)

// JobStatus is a manually set label on an application. Nothing derives it or
// restricts transitions between values.
type JobStatus string

const (
	JobStatusApplied   JobStatus = "applied"
	JobStatusFollowUp  JobStatus = "follow-up"
	JobStatusInterview JobStatus = "interview"
	JobStatusTask      JobStatus = "task"
	JobStatusRejected  JobStatus = "rejected"
)

// Job is a single job application.
type Job struct {
	ID            string    `json:"_id" bson:"-"`
	Company       string    `json:"company" bson:"company"`
	Position      string    `json:"position" bson:"position"`
	Location      string    `json:"location,omitempty" bson:"location,omitempty"`
	SalaryRange   string    `json:"salaryRange,omitempty" bson:"salaryRange,omitempty"`
	JobURL        string    `json:"jobUrl,omitempty" bson:"jobUrl,omitempty"`
	ContactEmail  string    `json:"contactEmail,omitempty" bson:"contactEmail,omitempty"`
	ContactPhone  string    `json:"contactPhone,omitempty" bson:"contactPhone,omitempty"`
	Status        JobStatus `json:"status,omitempty" bson:"status,omitempty"`
	AppliedDate   time.Time `json:"appliedDate" bson:"appliedDate"`
	LastUpdated   time.Time `json:"lastUpdated" bson:"lastUpdated"`
	Notes         string    `json:"notes,omitempty" bson:"notes,omitempty"`
	ResumeVersion string    `json:"resumeVersion,omitempty" bson:"resumeVersion,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (j *Job) SetID(id string) { j.ID = id }

// JobPatch is the set of fields a client may supply when creating or
// updating a job.
type JobPatch struct {
	Company       Optional[string]    `json:"company"`
	Position      Optional[string]    `json:"position"`
	Location      Optional[string]    `json:"location"`
	SalaryRange   Optional[string]    `json:"salaryRange"`
	JobURL        Optional[string]    `json:"jobUrl"`
	ContactEmail  Optional[string]    `json:"contactEmail"`
	ContactPhone  Optional[string]    `json:"contactPhone"`
	Status        Optional[JobStatus] `json:"status" validate:"omitempty,oneof=applied follow-up interview task rejected"`
	AppliedDate   Optional[time.Time] `json:"appliedDate"`
	Notes         Optional[string]    `json:"notes"`
	ResumeVersion Optional[string]    `json:"resumeVersion"`
}

// Changes returns the fields present in the patch. Dates sent without an
// offset are read in loc.
func (p *JobPatch) Changes(loc *time.Location) Changes {
	c := Changes{}
	setOpt(c, "company", p.Company)
	setOpt(c, "position", p.Position)
	setOpt(c, "location", p.Location)
	setOpt(c, "salaryRange", p.SalaryRange)
	setOpt(c, "jobUrl", p.JobURL)
	setOpt(c, "contactEmail", p.ContactEmail)
	setOpt(c, "contactPhone", p.ContactPhone)
	setOpt(c, "status", p.Status)
	setOpt(c, "appliedDate", p.AppliedDate.In(loc))
	setOpt(c, "notes", p.Notes)
	setOpt(c, "resumeVersion", p.ResumeVersion)
	return c
}

// JobFilter selects jobs. Zero fields do not constrain the result.
type JobFilter struct {
	Status JobStatus
	// Search is matched case-insensitively against company and position.
	Search  string
	Applied *TimeRange
}

// Matches reports whether job satisfies the filter.
func (f JobFilter) Matches(job *Job) bool {
	if f.Status != "" && job.Status != f.Status {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(job.Company), needle) &&
			!strings.Contains(strings.ToLower(job.Position), needle) {
			return false
		}
	}
	return matchRange(f.Applied, job.AppliedDate)
}
