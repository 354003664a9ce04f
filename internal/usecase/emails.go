package usecase

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// dateLayout matches the month/day/year dates the web UI shows.
const dateLayout = "1/2/2006"

type theme struct {
	Gradient template.CSS
	Accent   template.CSS
}

var (
	purple = theme{Gradient: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)", Accent: "#667eea"}
	amber  = theme{Gradient: "linear-gradient(135deg, #f59e0b 0%, #ea580c 100%)", Accent: "#f59e0b"}
	blue   = theme{Gradient: "linear-gradient(135deg, #3b82f6 0%, #2563eb 100%)", Accent: "#3b82f6"}
)

var (
	interviewTmpl = mustTemplate("interview.html")
	followUpTmpl  = mustTemplate("followup.html")
	taskTmpl      = mustTemplate("task.html")
	testTmpl      = mustTemplate("test.html")
)

func mustTemplate(body string) *template.Template {
	funcs := template.FuncMap{"upper": strings.ToUpper}
	return template.Must(template.New("layout").Funcs(funcs).
		ParseFS(templateFS, "templates/layout.html", "templates/"+body))
}

type emailData struct {
	Heading  string
	Theme    theme
	Company  string
	Position string
	Title    string
	Date     string
	Time     string
	Method   string
	Priority string
}

func render(t *template.Template, data emailData) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("failed to render %q email: %w", data.Heading, err)
	}
	return buf.String(), nil
}

func formatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// InterviewReminder builds the day-before reminder for an interview. Dates
// are written as calendar days in loc.
func InterviewReminder(to string, iv *domain.Interview, loc *time.Location) (domain.Message, error) {
	html, err := render(interviewTmpl, emailData{
		Heading:  "Interview Reminder",
		Theme:    purple,
		Company:  iv.Company,
		Position: iv.Position,
		Date:     formatDate(iv.InterviewDate, loc),
		Time:     iv.InterviewTime,
	})
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		To:      to,
		Subject: fmt.Sprintf("Interview Reminder: %s - %s", iv.Company, iv.Position),
		HTML:    html,
	}, nil
}

// FollowUpReminder builds the same-day reminder for a follow-up.
func FollowUpReminder(to string, f *domain.FollowUp, loc *time.Location) (domain.Message, error) {
	html, err := render(followUpTmpl, emailData{
		Heading:  "Follow-up Reminder",
		Theme:    amber,
		Company:  f.Company,
		Position: f.Position,
		Date:     formatDate(f.FollowUpDate, loc),
		Method:   string(f.Method),
	})
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		To:      to,
		Subject: fmt.Sprintf("Follow-up Reminder: %s - %s", f.Company, f.Position),
		HTML:    html,
	}, nil
}

// TaskReminder builds the same-day reminder for a task.
func TaskReminder(to string, t *domain.Task, loc *time.Location) (domain.Message, error) {
	html, err := render(taskTmpl, emailData{
		Heading:  "Task Reminder",
		Theme:    blue,
		Title:    t.Title,
		Date:     formatDate(t.DueDate, loc),
		Priority: string(t.Priority),
	})
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		To:      to,
		Subject: "Task Reminder: " + t.Title,
		HTML:    html,
	}, nil
}

// TestEmail builds the configuration check message.
func TestEmail(to string) (domain.Message, error) {
	html, err := render(testTmpl, emailData{Heading: "Email Configuration Test", Theme: purple})
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		To:      to,
		Subject: "Job Tracker - Test Email",
		HTML:    html,
	}, nil
}
