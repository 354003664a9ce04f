package domain

import "time"

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type TaskCategory string

const (
	TaskCategoryApplication   TaskCategory = "application"
	TaskCategoryFollowUp      TaskCategory = "follow-up"
	TaskCategoryInterviewPrep TaskCategory = "interview-prep"
	TaskCategoryResearch      TaskCategory = "research"
	TaskCategoryNetworking    TaskCategory = "networking"
	TaskCategoryOther         TaskCategory = "other"
)

// Task is a to-do item, optionally tied to a job.
type Task struct {
	ID            string       `json:"_id" bson:"-"`
	JobID         string       `json:"jobId,omitempty" bson:"jobId,omitempty"`
	Company       string       `json:"company,omitempty" bson:"company,omitempty"`
	Title         string       `json:"title" bson:"title"`
	Description   string       `json:"description,omitempty" bson:"description,omitempty"`
	DueDate       time.Time    `json:"dueDate" bson:"dueDate"`
	Priority      TaskPriority `json:"priority,omitempty" bson:"priority,omitempty"`
	Category      TaskCategory `json:"category,omitempty" bson:"category,omitempty"`
	Completed     bool         `json:"completed" bson:"completed"`
	CompletedDate *time.Time   `json:"completedDate" bson:"completedDate"`
	ReminderSent  bool         `json:"reminderSent,omitempty" bson:"reminderSent,omitempty"`
	CreatedAt     time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt" bson:"updatedAt"`
}

func (t *Task) SetID(id string) { t.ID = id }

// TaskPatch is the set of fields a client may supply for a task.
type TaskPatch struct {
	JobID         Optional[string]       `json:"jobId"`
	Company       Optional[string]       `json:"company"`
	Title         Optional[string]       `json:"title"`
	Description   Optional[string]       `json:"description"`
	DueDate       Optional[time.Time]    `json:"dueDate"`
	Priority      Optional[TaskPriority] `json:"priority" validate:"omitempty,oneof=low medium high"`
	Category      Optional[TaskCategory] `json:"category" validate:"omitempty,oneof=application follow-up interview-prep research networking other"`
	Completed     Optional[bool]         `json:"completed"`
	CompletedDate Optional[*time.Time]   `json:"completedDate"`
}

// Changes returns the fields present in the patch. Dates sent without an
// offset are read in loc.
func (p *TaskPatch) Changes(loc *time.Location) Changes {
	c := Changes{}
	setOpt(c, "jobId", p.JobID)
	setOpt(c, "company", p.Company)
	setOpt(c, "title", p.Title)
	setOpt(c, "description", p.Description)
	setOpt(c, "dueDate", p.DueDate.In(loc))
	setOpt(c, "priority", p.Priority)
	setOpt(c, "category", p.Category)
	setOpt(c, "completed", p.Completed)
	setOpt(c, "completedDate", p.CompletedDate.In(loc))
	return c
}

// TaskFilter selects tasks. Nil fields do not constrain the result.
type TaskFilter struct {
	Completed    *bool
	ReminderSent *bool
	Due          *TimeRange
}

// Matches reports whether task satisfies the filter.
func (f TaskFilter) Matches(task *Task) bool {
	return matchBool(f.Completed, task.Completed) &&
		matchBool(f.ReminderSent, task.ReminderSent) &&
		matchRange(f.Due, task.DueDate)
}
