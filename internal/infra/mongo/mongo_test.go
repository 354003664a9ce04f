package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

func TestNewConnector(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		db      string
		wantDB  string
		wantErr error
	}{
		{name: "missing uri", wantErr: ErrMissingURI},
		{name: "database from uri", uri: "mongodb://localhost:27017/tracker", wantDB: "tracker"},
		{name: "explicit database wins", uri: "mongodb://localhost:27017/tracker", db: "other", wantDB: "other"},
		{name: "default database", uri: "mongodb://localhost:27017", wantDB: DefaultDatabase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConnector(tt.uri, tt.db)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.database != tt.wantDB {
				t.Errorf("database = %q, want %q", c.database, tt.wantDB)
			}
		})
	}
}

func TestConnectorRetriesAfterFailure(t *testing.T) {
	c, err := NewConnector("mongodb://localhost:27017", "")
	if err != nil {
		t.Fatalf("new connector: %v", err)
	}

	calls := 0
	c.WithDialer(func(_ context.Context, uri string) (*mongod.Client, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection refused")
		}
		// Connect is lazy in v2; no server is contacted here.
		return mongod.Connect(options.Client().ApplyURI(uri))
	})

	ctx := context.Background()
	if _, err := c.Database(ctx); err == nil {
		t.Fatal("expected first attempt to fail")
	}
	db, err := c.Database(ctx)
	if err != nil {
		t.Fatalf("second attempt: %v", err)
	}
	if db.Name() != DefaultDatabase {
		t.Errorf("database name = %q", db.Name())
	}
	if _, err := c.Database(ctx); err != nil {
		t.Fatalf("third attempt: %v", err)
	}
	if calls != 2 {
		t.Errorf("dial called %d times, want 2", calls)
	}
	_ = c.Close(ctx)
}

func TestJobFilter(t *testing.T) {
	got := jobFilter(domain.JobFilter{Status: domain.JobStatusApplied, Search: "a.c+"})

	if got["status"] != "applied" {
		t.Errorf("status = %v", got["status"])
	}
	or, ok := got["$or"].(bson.A)
	if !ok || len(or) != 2 {
		t.Fatalf("$or = %#v", got["$or"])
	}
	company := or[0].(bson.M)["company"].(bson.M)
	if company["$regex"] != `a\.c\+` || company["$options"] != "i" {
		t.Errorf("search pattern not escaped: %v", company)
	}

	if len(jobFilter(domain.JobFilter{})) != 0 {
		t.Error("empty filter should match everything")
	}
}

func TestFollowUpFilter(t *testing.T) {
	f := false
	day := domain.Day(time.Date(2024, 6, 12, 8, 0, 0, 0, time.UTC), 0)

	got := followUpFilter(domain.FollowUpFilter{Completed: &f, ReminderSent: &f, Date: &day})

	if got["completed"].(bson.M)["$ne"] != true {
		t.Errorf("completed = %v", got["completed"])
	}
	if got["reminderSent"].(bson.M)["$ne"] != true {
		t.Errorf("reminderSent = %v", got["reminderSent"])
	}
	r := got["followUpDate"].(bson.M)
	if !r["$gte"].(time.Time).Equal(day.From) || !r["$lt"].(time.Time).Equal(day.To) {
		t.Errorf("date range = %v", r)
	}
}

func TestOpenEndedRange(t *testing.T) {
	now := time.Now()
	upcoming := domain.Since(now)
	tr := true

	got := interviewFilter(domain.InterviewFilter{Completed: &tr, Date: &upcoming})
	if got["completed"] != true {
		t.Errorf("completed = %v", got["completed"])
	}
	r := got["interviewDate"].(bson.M)
	if _, ok := r["$lt"]; ok {
		t.Error("open-ended range must not set an upper bound")
	}
}

func TestMalformedObjectID(t *testing.T) {
	if _, err := objectID("nope"); !errors.Is(err, domain.ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
	id := bson.NewObjectID()
	got, err := objectID(id.Hex())
	if err != nil || got != id {
		t.Errorf("objectID(%s) = %v, %v", id.Hex(), got, err)
	}
}
