package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kometawizard/kometawizard/internal/database"
	"github.com/kometawizard/kometawizard/internal/runner"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return NewService(db.Conn(), zerolog.Nop())
}

func record(profileName string, startedAt time.Time, success bool) runner.RunRecord {
	exitCode := 0
	if !success {
		exitCode = 1
	}
	return runner.RunRecord{
		ProfileName: profileName,
		ConfigPath:  "/data/output/" + profileName + ".yml",
		Trigger:     runner.TriggerManual,
		StartedAt:   startedAt,
		FinishedAt:  startedAt.Add(time.Minute),
		ExitCode:    exitCode,
		Success:     success,
	}
}

func TestRecordAndListRuns(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if err := svc.RecordRun(ctx, record("Main", base, true)); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := svc.RecordRun(ctx, record("Main", base.Add(time.Hour), false)); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	resp, err := svc.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.TotalCount != 2 {
		t.Fatalf("total = %d, want 2", resp.TotalCount)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(resp.Items))
	}

	// Newest first.
	if resp.Items[0].Success {
		t.Error("newest run should be the failed one")
	}
	if resp.Items[0].ExitCode != 1 {
		t.Errorf("exit code = %d, want 1", resp.Items[0].ExitCode)
	}
	if resp.Items[1].ProfileName != "Main" || !resp.Items[1].Success {
		t.Errorf("oldest run = %+v", resp.Items[1])
	}
	if resp.Items[0].Trigger != runner.TriggerManual {
		t.Errorf("trigger = %q", resp.Items[0].Trigger)
	}
}

func TestListPagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		name := fmt.Sprintf("run-%d", i)
		if err := svc.RecordRun(ctx, record(name, base.Add(time.Duration(i)*time.Hour), true)); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	page1, err := svc.List(ctx, ListOptions{Page: 1, PageSize: 3})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page1.TotalCount != 7 || page1.TotalPages != 3 {
		t.Errorf("total = %d pages = %d, want 7 and 3", page1.TotalCount, page1.TotalPages)
	}
	if len(page1.Items) != 3 || page1.Items[0].ProfileName != "run-6" {
		t.Errorf("page 1 = %d items, first %q", len(page1.Items), page1.Items[0].ProfileName)
	}

	page3, err := svc.List(ctx, ListOptions{Page: 3, PageSize: 3})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page3.Items) != 1 || page3.Items[0].ProfileName != "run-0" {
		t.Errorf("page 3 = %+v", page3.Items)
	}
}

func TestListProfileFilter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	if err := svc.RecordRun(ctx, record("Main", base, true)); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := svc.RecordRun(ctx, record("Alt", base.Add(time.Hour), true)); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}

	resp, err := svc.List(ctx, ListOptions{ProfileName: "Alt"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.TotalCount != 1 || len(resp.Items) != 1 {
		t.Fatalf("filtered = %d items, total %d", len(resp.Items), resp.TotalCount)
	}
	if resp.Items[0].ProfileName != "Alt" {
		t.Errorf("profile = %q, want Alt", resp.Items[0].ProfileName)
	}
}

func TestDeleteAll(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.RecordRun(ctx, record("Main", time.Now().UTC(), true)); err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if err := svc.DeleteAll(ctx); err != nil {
		t.Fatalf("DeleteAll: %v", err)
	}

	resp, err := svc.List(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if resp.TotalCount != 0 || len(resp.Items) != 0 {
		t.Errorf("runs remain after DeleteAll: %+v", resp)
	}
}
