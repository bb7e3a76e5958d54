package timer

import (
	"context"
	"testing"
	"time"

	"github.com/akshat/stint/internal/session"
)

func TestDurationMinutes(t *testing.T) {
	cfg := Config{StudyMinutes: 25, BreakMinutes: 5}

	tests := []struct {
		name    string
		trigger Trigger
		elapsed int
		want    int
	}{
		{"natural completion is exact", TriggerCompleted, 1500, 25},
		{"natural completion ignores elapsed", TriggerCompleted, 42, 25},
		{"manual stop rounds up", TriggerStopped, 500, 9},
		{"manual stop on exact minute", TriggerStopped, 540, 9},
		{"manual stop floors to one minute", TriggerStopped, 10, 1},
		{"manual stop one second", TriggerStopped, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := durationMinutes(cfg, Pending{Trigger: tt.trigger, ElapsedSeconds: tt.elapsed})
			if got != tt.want {
				t.Errorf("durationMinutes = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFinalizeDefaultsSubject(t *testing.T) {
	store := &memStore{}
	f := NewFinalizer(store, WithIDSource(func() string { return "id-1" }))

	rec, err := f.Finalize(context.Background(), DefaultConfig(),
		Pending{Trigger: TriggerCompleted, At: time.Now()},
		Resolution{},
	)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if rec.Subject != session.FreeStudySubject {
		t.Errorf("subject = %q, want %q", rec.Subject, session.FreeStudySubject)
	}
	if rec.ID != "id-1" {
		t.Errorf("id = %q", rec.ID)
	}
}

func TestFinalizeSkipZeroesCounts(t *testing.T) {
	store := &memStore{}
	f := NewFinalizer(store)

	rec, err := f.Finalize(context.Background(), DefaultConfig(),
		Pending{Trigger: TriggerStopped, ElapsedSeconds: 300, Subject: "Physics", At: time.Now()},
		Resolution{Submitted: false, QuestionsTotal: 99, QuestionsCorrect: 99},
	)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if rec.QuestionsTotal != 0 || rec.QuestionsCorrect != 0 {
		t.Errorf("skip kept counts: %+v", rec)
	}
	if rec.Type != session.TypeTheory {
		t.Errorf("skip type = %q, want theory", rec.Type)
	}
}

func TestFinalizeClampsNegativeCounts(t *testing.T) {
	store := &memStore{}
	f := NewFinalizer(store)

	rec, err := f.Finalize(context.Background(), DefaultConfig(),
		Pending{Trigger: TriggerCompleted, At: time.Now()},
		Resolution{Submitted: true, QuestionsTotal: -3, QuestionsCorrect: -7, Type: session.TypeQuestion},
	)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if rec.QuestionsTotal != 0 || rec.QuestionsCorrect != 0 {
		t.Errorf("negative counts not clamped: %+v", rec)
	}
}

func TestFinalizeTimestampFromPending(t *testing.T) {
	store := &memStore{}
	f := NewFinalizer(store)

	at := time.Date(2026, 8, 29, 23, 40, 0, 0, time.FixedZone("UTC-3", -3*3600))
	rec, err := f.Finalize(context.Background(), DefaultConfig(),
		Pending{Trigger: TriggerCompleted, At: at},
		Resolution{},
	)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !rec.Timestamp.Equal(at) {
		t.Errorf("timestamp = %v, want instant of %v", rec.Timestamp, at)
	}
}
