package domain

// DailyGoal is the number of applications per day the progress figure is
// measured against.
const DailyGoal = 10

// StatusCounts holds the number of jobs per status label.
type StatusCounts struct {
	Applied   int64 `json:"applied"`
	FollowUp  int64 `json:"followUp"`
	Interview int64 `json:"interview"`
	Task      int64 `json:"task"`
	Rejected  int64 `json:"rejected"`
}

// NewStatusCounts maps grouped counts onto the fixed buckets. Statuses
// outside the known set are dropped.
func NewStatusCounts(grouped map[JobStatus]int64) StatusCounts {
	return StatusCounts{
		Applied:   grouped[JobStatusApplied],
		FollowUp:  grouped[JobStatusFollowUp],
		Interview: grouped[JobStatusInterview],
		Task:      grouped[JobStatusTask],
		Rejected:  grouped[JobStatusRejected],
	}
}

// Statistics is the dashboard summary. It is recomputed on every request.
type Statistics struct {
	TotalApplications  int64        `json:"totalApplications"`
	TodayApplications  int64        `json:"todayApplications"`
	WeekApplications   int64        `json:"weekApplications"`
	StatusCounts       StatusCounts `json:"statusCounts"`
	UpcomingInterviews int64        `json:"upcomingInterviews"`
	PendingTasks       int64        `json:"pendingTasks"`
	PendingFollowUps   int64        `json:"pendingFollowUps"`
	DailyGoal          int64        `json:"dailyGoal"`
	ProgressPercentage float64      `json:"progressPercentage"`
}

// Progress returns today's applications as a percentage of the daily goal,
// capped at 100.
func Progress(today int64) float64 {
	p := float64(today) * 100 / DailyGoal
	if p > 100 {
		return 100
	}
	return p
}
