package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadState_MissingFile(t *testing.T) {
	state, err := LoadState(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadState err=%v", err)
	}
	if len(state.Jobs) != 0 {
		t.Fatalf("want empty state, got %+v", state)
	}
}

func TestLoadState_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := LoadState(path); err == nil {
		t.Fatal("want parse error for malformed state")
	}
}

func TestScheduler_StatePersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheduler_state.json")

	s := newTestScheduler()
	s.SetStatePath(path)
	_ = s.AddJob("scrape_all", "@every 60m", func(ctx context.Context) error { return nil })
	_ = s.AddJob("analyze_pending", "@every 30m", func(ctx context.Context) error {
		return errors.New("db down")
	})

	if err := s.RunNow("scrape_all"); err != nil {
		t.Fatalf("RunNow err=%v", err)
	}
	_ = s.RunNow("analyze_pending")
	if err := s.DisableJob("analyze_pending"); err != nil {
		t.Fatalf("DisableJob err=%v", err)
	}

	state, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState err=%v", err)
	}

	js, ok := state.Jobs["scrape_all"]
	if !ok {
		t.Fatalf("scrape_all missing from persisted state: %+v", state)
	}
	if js.TotalRuns != 1 || js.SuccessfulRuns != 1 || js.FailedRuns != 0 {
		t.Fatalf("unexpected scrape_all counters: %+v", js)
	}
	if js.IntervalMinutes != 60 || !js.Enabled || js.LastRun == nil {
		t.Fatalf("unexpected scrape_all state: %+v", js)
	}

	js = state.Jobs["analyze_pending"]
	if js.Enabled || js.FailedRuns != 1 || js.LastError == "" {
		t.Fatalf("unexpected analyze_pending state: %+v", js)
	}

	// a fresh scheduler picks the snapshot back up
	restored := newTestScheduler()
	_ = restored.AddJob("scrape_all", "@every 60m", func(ctx context.Context) error { return nil })
	_ = restored.AddJob("analyze_pending", "@every 30m", func(ctx context.Context) error { return nil })
	restored.RestoreState(state)

	byName := map[string]JobStatus{}
	for _, st := range restored.Status() {
		byName[st.Name] = st
	}
	if st := byName["scrape_all"]; st.Runs != 1 || st.Successes != 1 {
		t.Fatalf("counters not restored: %+v", st)
	}
	if st := byName["analyze_pending"]; st.Enabled || st.Failures != 1 || st.LastError == "" {
		t.Fatalf("state not restored: %+v", st)
	}
}

func TestScheduler_RestoreState_AppliesIntervalOverride(t *testing.T) {
	s := newTestScheduler()
	_ = s.AddJob("scrape_all", "@every 60m", func(ctx context.Context) error { return nil })

	s.RestoreState(SchedulerState{Jobs: map[string]JobState{
		"scrape_all": {Name: "scrape_all", Enabled: true, IntervalMinutes: 15},
		"retired":    {Name: "retired", Enabled: true, IntervalMinutes: 5},
	}})

	if st := s.Status()[0]; st.Spec != "@every 15m" {
		t.Fatalf("interval override not applied: %+v", st)
	}
}

func TestScheduler_ExportState_CronSpecHasNoInterval(t *testing.T) {
	s := newTestScheduler()
	_ = s.AddJob("prune", "30 3 * * *", func(ctx context.Context) error { return nil })

	state := s.ExportState()
	if js := state.Jobs["prune"]; js.IntervalMinutes != 0 {
		t.Fatalf("cron-spec job should persist interval 0, got %d", js.IntervalMinutes)
	}
}

func TestScheduler_SetJobInterval(t *testing.T) {
	s := newTestScheduler()
	_ = s.AddJob("scrape_all", "@every 60m", func(ctx context.Context) error { return nil })

	if err := s.SetJobInterval("scrape_all", 0); err == nil {
		t.Fatal("want error for non-positive interval")
	}
	if err := s.SetJobInterval("missing", 10); !errors.Is(err, ErrUnknownJob) {
		t.Fatalf("want ErrUnknownJob, got %v", err)
	}

	if err := s.SetJobInterval("scrape_all", 10); err != nil {
		t.Fatalf("SetJobInterval err=%v", err)
	}
	if st := s.Status()[0]; st.Spec != "@every 10m" {
		t.Fatalf("spec not updated: %+v", st)
	}
	if err := s.RunNow("scrape_all"); err != nil {
		t.Fatalf("rescheduled job should still run: %v", err)
	}
}

func TestIntervalMinutes(t *testing.T) {
	cases := []struct {
		spec string
		want int
	}{
		{"@every 60m", 60},
		{"@every 90m", 90},
		{"@every 2h", 120},
		{"@every 30s", 0},
		{"30 3 * * *", 0},
		{"@daily", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := intervalMinutes(tc.spec); got != tc.want {
			t.Errorf("intervalMinutes(%q)=%d, want %d", tc.spec, got, tc.want)
		}
	}
}

func TestScheduler_CountersTrackOutcomes(t *testing.T) {
	s := newTestScheduler()
	fail := true
	_ = s.AddJob("collect_metrics", "@every 15m", func(ctx context.Context) error {
		if fail {
			return errors.New("db down")
		}
		return nil
	})

	_ = s.RunNow("collect_metrics")
	fail = false
	if err := s.RunNow("collect_metrics"); err != nil {
		t.Fatalf("RunNow err=%v", err)
	}

	st := s.Status()[0]
	if st.Runs != 2 || st.Successes != 1 || st.Failures != 1 {
		t.Fatalf("unexpected counters: %+v", st)
	}
	if st.LastError != "" {
		t.Fatalf("last error should clear after success: %+v", st)
	}
}
