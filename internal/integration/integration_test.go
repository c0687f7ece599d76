package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/xvierd/prep-cli/internal/adapters/clock"
	"github.com/xvierd/prep-cli/internal/adapters/git"
	"github.com/xvierd/prep-cli/internal/adapters/storage"
	"github.com/xvierd/prep-cli/internal/domain"
	"github.com/xvierd/prep-cli/internal/ports"
	"github.com/xvierd/prep-cli/internal/services"
)

// setupTestStorage creates a temporary database for integration tests
func setupTestStorage(t *testing.T) (ports.Storage, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := storage.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, dbPath
}

// setupDirtyRepo creates a repository with one untracked file.
func setupDirtyRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if _, err := gogit.PlainInit(dir, false); err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("draft"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return dir
}

// TestFullPreparation walks the wizard the way the terminal UI drives it.
func TestFullPreparation(t *testing.T) {
	store, _ := setupTestStorage(t)
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))

	prep := services.NewPrepService(store, git.NewDetector(), nil)
	breathing := services.NewBreathingService(clk, domain.DefaultBreathingConfig(), nil)
	focus := services.NewFocusService(clk, 30, nil)

	nav, err := domain.NewNavigator(domain.DefaultSteps())
	if err != nil {
		t.Fatalf("failed to create navigator: %v", err)
	}

	// 1. Goals and checklist
	if err := prep.SeedChecklist(ctx, setupDirtyRepo(t)); err != nil {
		t.Fatalf("failed to seed checklist: %v", err)
	}
	if _, err := prep.AddGoal(ctx, "Practice coding interviews"); err != nil {
		t.Fatalf("failed to add goal: %v", err)
	}
	if _, err := prep.AddGoal(ctx, "Read the chapter on graphs"); err != nil {
		t.Fatalf("failed to add goal: %v", err)
	}

	items, err := prep.Checklist(ctx)
	if err != nil {
		t.Fatalf("failed to list checklist: %v", err)
	}
	texts := make(map[string]domain.ItemSource, len(items))
	for _, item := range items {
		texts[item.Text] = item.Source
	}
	if texts[services.PendingChangesItem] != domain.SourceWorkspace {
		t.Error("dirty repository should add the pending changes item")
	}
	if texts["Open your development environment"] != domain.SourceGoal {
		t.Error("coding goal should add the development environment item")
	}
	if len(items) != len(domain.DefaultEnvironmentItems())+3 {
		t.Errorf("checklist has %d items, want defaults + 3", len(items))
	}

	// 2. Breathing
	nav.Advance()
	if nav.Current().Kind != domain.StepBreathing {
		t.Fatalf("expected breathing step, got %v", nav.Current().Kind)
	}

	var breathed []services.BreathingCompletion
	breathing.OnComplete(func(c services.BreathingCompletion) { breathed = append(breathed, c) })

	breathing.SelectDuration(180)
	breathing.Toggle()
	clk.Advance(3 * time.Minute)
	if len(breathed) != 1 || breathed[0].Seconds != 180 {
		t.Fatalf("breathing completions = %v, want one of 180s", breathed)
	}
	clk.Advance(10 * time.Second)
	if breathing.Snapshot().Phase != domain.PhaseIdle {
		t.Errorf("breathing should return to idle, got %v", breathing.Snapshot().Phase)
	}

	// 3. Visualization and affirmations
	nav.Advance()
	prep.SetVisualization("Desk clear, phone away, first problem solved")
	nav.Advance()
	if _, err := prep.AddAffirmation(ctx, "I learn a little every day"); err != nil {
		t.Fatalf("failed to add affirmation: %v", err)
	}

	// 4. Focus
	nav.Advance()
	if !nav.IsLast() || nav.Progress() != 100 {
		t.Fatalf("expected final step at 100%%, got %v", nav.Progress())
	}

	var focused []services.FocusCompletion
	focus.OnSessionComplete(func(c services.FocusCompletion) { focused = append(focused, c) })

	if err := focus.Configure(10); err != nil {
		t.Fatalf("failed to configure focus: %v", err)
	}
	focus.Start()
	clk.Advance(4 * time.Minute)
	focus.Pause()
	clk.Advance(time.Hour)

	snap := focus.Snapshot()
	if snap.Remaining() != 6*time.Minute {
		t.Errorf("remaining after pause = %v, want 6m", snap.Remaining())
	}

	focus.Start()
	clk.Advance(6 * time.Minute)
	if len(focused) != 1 || focused[0].Segments != 2 {
		t.Fatalf("focus completions = %v, want one of 2 segments", focused)
	}
	if !focus.Snapshot().Finished {
		t.Error("focus session should be finished")
	}

	summary, err := prep.Summary(ctx)
	if err != nil {
		t.Fatalf("failed to get summary: %v", err)
	}
	if len(summary.Goals) != 2 || len(summary.Affirmations) != 1 {
		t.Errorf("summary = %d goals, %d affirmations", len(summary.Goals), len(summary.Affirmations))
	}

	focus.Dismiss()
	if focus.Snapshot().Remaining() != 10*time.Minute {
		t.Error("dismissing should restore the configured length")
	}
}

// TestStorageSurvivesReopen checks the file-backed store keeps its rows.
func TestStorageSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	store, err := storage.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	prep := services.NewPrepService(store, nil, nil)
	if err := prep.SeedChecklist(ctx, ""); err != nil {
		t.Fatalf("failed to seed checklist: %v", err)
	}
	if _, err := prep.AddGoal(ctx, "Finish the essay"); err != nil {
		t.Fatalf("failed to add goal: %v", err)
	}
	store.Close()

	reopened, err := storage.New(dbPath)
	if err != nil {
		t.Fatalf("failed to reopen storage: %v", err)
	}
	defer reopened.Close()

	prep = services.NewPrepService(reopened, nil, nil)
	if err := prep.SeedChecklist(ctx, ""); err != nil {
		t.Fatalf("failed to seed checklist: %v", err)
	}
	items, _ := prep.Checklist(ctx)
	if len(items) != len(domain.DefaultEnvironmentItems()) {
		t.Errorf("reseeding should not duplicate items, got %d", len(items))
	}
	goals, _ := prep.ListGoals(ctx)
	if len(goals) != 1 || goals[0].Text != "Finish the essay" {
		t.Errorf("goals after reopen = %v", goals)
	}
}

// TestFocusWithRealClock runs a short segment tick on the wall clock.
func TestFocusWithRealClock(t *testing.T) {
	if testing.Short() {
		t.Skip("uses the wall clock")
	}

	focus := services.NewFocusService(clock.NewReal(), 5, nil)
	focus.Start()
	time.Sleep(2100 * time.Millisecond)
	focus.Pause()

	elapsed := 5*time.Minute - focus.Snapshot().Remaining()
	if elapsed < time.Second || elapsed > 3*time.Second {
		t.Errorf("elapsed = %v, want about two seconds", elapsed)
	}
}
