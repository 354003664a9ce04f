package mongo

import (
	"regexp"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func rangeFilter(r *domain.TimeRange) bson.M {
	m := bson.M{"$gte": r.From}
	if !r.To.IsZero() {
		m["$lt"] = r.To
	}
	return m
}

// flagFilter matches a boolean field. Documents written before the field
// existed count as false.
func flagFilter(filter bson.M, field string, want *bool) {
	if want == nil {
		return
	}
	if *want {
		filter[field] = true
	} else {
		filter[field] = bson.M{"$ne": true}
	}
}

func jobFilter(f domain.JobFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"company": pattern},
			bson.M{"position": pattern},
		}
	}
	if f.Applied != nil {
		filter["appliedDate"] = rangeFilter(f.Applied)
	}
	return filter
}

func interviewFilter(f domain.InterviewFilter) bson.M {
	filter := bson.M{}
	flagFilter(filter, "completed", f.Completed)
	flagFilter(filter, "reminderSent", f.ReminderSent)
	if f.Date != nil {
		filter["interviewDate"] = rangeFilter(f.Date)
	}
	return filter
}

func taskFilter(f domain.TaskFilter) bson.M {
	filter := bson.M{}
	flagFilter(filter, "completed", f.Completed)
	flagFilter(filter, "reminderSent", f.ReminderSent)
	if f.Due != nil {
		filter["dueDate"] = rangeFilter(f.Due)
	}
	return filter
}

func followUpFilter(f domain.FollowUpFilter) bson.M {
	filter := bson.M{}
	flagFilter(filter, "completed", f.Completed)
	flagFilter(filter, "reminderSent", f.ReminderSent)
	if f.Date != nil {
		filter["followUpDate"] = rangeFilter(f.Date)
	}
	return filter
}
