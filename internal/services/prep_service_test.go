package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/prep-cli/internal/domain"
	"github.com/xvierd/prep-cli/internal/ports"
)

type stubDetector struct {
	info *ports.WorkspaceInfo
	err  error
}

func (d stubDetector) Detect(context.Context, string) (*ports.WorkspaceInfo, error) {
	return d.info, d.err
}

func (d stubDetector) IsAvailable() bool { return d.err == nil }

func checklistTexts(t *testing.T, svc *PrepService) []string {
	t.Helper()
	items, err := svc.Checklist(context.Background())
	require.NoError(t, err)
	var texts []string
	for _, item := range items {
		texts = append(texts, item.Text)
	}
	return texts
}

func TestPrepService_SeedChecklist(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults only", func(t *testing.T) {
		svc := NewPrepService(setupTestStorage(t), nil, nil)
		require.NoError(t, svc.SeedChecklist(ctx, ""))
		require.NoError(t, svc.SeedChecklist(ctx, ""))
		assert.Equal(t, domain.DefaultEnvironmentItems(), checklistTexts(t, svc))
	})

	t.Run("dirty workspace", func(t *testing.T) {
		det := stubDetector{info: &ports.WorkspaceInfo{Branch: "main", Modified: []string{"a.go"}}}
		svc := NewPrepService(setupTestStorage(t), det, nil)
		require.NoError(t, svc.SeedChecklist(ctx, "."))
		assert.Contains(t, checklistTexts(t, svc), PendingChangesItem)
	})

	t.Run("clean workspace", func(t *testing.T) {
		det := stubDetector{info: &ports.WorkspaceInfo{IsClean: true}}
		svc := NewPrepService(setupTestStorage(t), det, nil)
		require.NoError(t, svc.SeedChecklist(ctx, "."))
		assert.NotContains(t, checklistTexts(t, svc), PendingChangesItem)
	})

	t.Run("not a repository", func(t *testing.T) {
		det := stubDetector{err: errors.New("git repository not found")}
		svc := NewPrepService(setupTestStorage(t), det, nil)
		require.NoError(t, svc.SeedChecklist(ctx, "."))
		assert.Len(t, checklistTexts(t, svc), len(domain.DefaultEnvironmentItems()))
	})
}

func TestPrepService_AddGoal(t *testing.T) {
	ctx := context.Background()
	svc := NewPrepService(setupTestStorage(t), nil, nil)

	goal, err := svc.AddGoal(ctx, "  Finish the programming assignment ")
	require.NoError(t, err)
	assert.Equal(t, "Finish the programming assignment", goal.Text)

	_, err = svc.AddGoal(ctx, "Write more code")
	require.NoError(t, err)
	_, err = svc.AddGoal(ctx, "Read chapter 4")
	require.NoError(t, err)

	texts := checklistTexts(t, svc)
	assert.Equal(t, []string{"Open your development environment", "Prepare your reading material"}, texts,
		"derived items are added once each")

	_, err = svc.AddGoal(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyText)

	goals, err := svc.ListGoals(ctx)
	require.NoError(t, err)
	assert.Len(t, goals, 3)
}

func TestPrepService_ToggleEnvironmentItem(t *testing.T) {
	ctx := context.Background()
	svc := NewPrepService(setupTestStorage(t), nil, nil)
	require.NoError(t, svc.SeedChecklist(ctx, ""))

	items, _ := svc.Checklist(ctx)
	item, err := svc.ToggleEnvironmentItem(ctx, items[0].ID)
	require.NoError(t, err)
	assert.True(t, item.Checked)

	item, err = svc.ToggleEnvironmentItem(ctx, items[0].ID)
	require.NoError(t, err)
	assert.False(t, item.Checked)

	_, err = svc.ToggleEnvironmentItem(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestPrepService_VisualizationAndSummary(t *testing.T) {
	ctx := context.Background()
	svc := NewPrepService(setupTestStorage(t), nil, nil)

	assert.Len(t, svc.Prompts(), 3)
	assert.Equal(t, 0, svc.NextPrompt())
	assert.Equal(t, 1, svc.NextPrompt())
	assert.Equal(t, 1, svc.CurrentPrompt())

	svc.SetSelector(domain.NewRandomSelector(7))
	i := svc.NextPrompt()
	assert.GreaterOrEqual(t, i, 0)
	assert.Less(t, i, 3)

	svc.SetVisualization("Walking out of the exam calm")
	assert.Equal(t, "Walking out of the exam calm", svc.Visualization())

	_, _ = svc.AddGoal(ctx, "Review lecture notes")
	_, _ = svc.AddAffirmation(ctx, "I am ready")
	_, err := svc.AddAffirmation(ctx, "")
	assert.ErrorIs(t, err, domain.ErrEmptyText)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, summary.Goals, 1)
	require.Len(t, summary.Affirmations, 1)
	assert.Equal(t, "Review lecture notes", summary.Goals[0].Text)
	assert.Equal(t, "I am ready", summary.Affirmations[0].Text)
}
