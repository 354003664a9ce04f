package usecase_test

import (
	"testing"
	"time"

	"github.com/fairooz-nawal/Job-Application-Tracker/internal/usecase"
)

func TestClockInReportsZone(t *testing.T) {
	eastern := time.FixedZone("UTC-5", -5*60*60)
	clock := usecase.ClockIn(eastern)

	if got := clock.Location(); got != eastern {
		t.Errorf("Location() = %v, want %v", got, eastern)
	}
	if time.Local == eastern {
		t.Error("process zone must stay untouched")
	}
}
