package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestFollowUpPatchDecode(t *testing.T) {
	body := `{"completed":true,"completedDate":null,"message":"thanks","followUpDate":"2024-03-05"}`

	var p FollowUpPatch
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !p.Completed.Set || !p.Completed.Value {
		t.Errorf("completed = %+v, want set true", p.Completed)
	}
	if !p.CompletedDate.Set || p.CompletedDate.Value != nil {
		t.Errorf("completedDate = %+v, want explicit null", p.CompletedDate)
	}
	if p.Company.Set {
		t.Errorf("company should be absent")
	}
	changes := p.Changes(time.UTC)
	if len(changes) != 4 {
		t.Fatalf("expected 4 changes, got %d: %v", len(changes), changes)
	}
	if _, ok := changes["company"]; ok {
		t.Errorf("absent field leaked into changes")
	}
}

func TestPatchDatesFollowZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	body := `{"followUpDate":"2024-03-05","completedDate":"2024-03-05T18:30","company":"Acme"}`

	var p FollowUpPatch
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	changes := p.Changes(tokyo)

	day, ok := changes["followUpDate"].(time.Time)
	if !ok || !day.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, tokyo)) {
		t.Errorf("followUpDate = %v, want midnight in JST", changes["followUpDate"])
	}
	done, ok := changes["completedDate"].(*time.Time)
	if !ok || done == nil || !done.Equal(time.Date(2024, 3, 5, 18, 30, 0, 0, tokyo)) {
		t.Errorf("completedDate = %v, want 18:30 JST", changes["completedDate"])
	}

	// An explicit offset is kept as sent.
	var withOffset TaskPatch
	if err := json.Unmarshal([]byte(`{"dueDate":"2024-03-05T10:30:00Z"}`), &withOffset); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	due := withOffset.Changes(tokyo)["dueDate"].(time.Time)
	if !due.Equal(time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)) {
		t.Errorf("dueDate = %v, want 10:30 UTC", due)
	}
}

func TestParseTime(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-05T10:30:00Z", time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)},
		{"2024-03-05T10:30", time.Date(2024, 3, 5, 10, 30, 0, 0, loc)},
		{"2024-03-05T10:30:15", time.Date(2024, 3, 5, 10, 30, 15, 0, loc)},
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in, loc)
			if err != nil {
				t.Fatalf("ParseTime(%q): %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseTime("next tuesday", loc); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestMerge(t *testing.T) {
	done := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	task := &Task{ID: "t1", Title: "Send portfolio", Completed: true, CompletedDate: &done}

	err := Merge(task, Changes{"completed": false, "completedDate": (*time.Time)(nil), "priority": TaskPriorityHigh})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	if task.ID != "t1" || task.Title != "Send portfolio" {
		t.Errorf("untouched fields changed: %+v", task)
	}
	if task.Completed || task.CompletedDate != nil {
		t.Errorf("completion not cleared: %+v", task)
	}
	if task.Priority != TaskPriorityHigh {
		t.Errorf("priority = %q, want high", task.Priority)
	}
}
