package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/xvierd/prep-cli/internal/domain"
	"github.com/xvierd/prep-cli/internal/ports"
	"go.uber.org/zap"
)

// PendingChangesItem is added to the checklist when the workspace has uncommitted work.
const PendingChangesItem = "Commit or stash pending changes"

// PrepService handles the goals, checklist, visualization and affirmation use cases.
type PrepService struct {
	storage  ports.Storage
	detector ports.WorkspaceDetector
	rules    []domain.GoalRule
	logger   *zap.Logger

	mu            sync.Mutex
	visualization string
	selector      domain.Selector
	prompt        int
}

// NewPrepService creates a new prep service. detector may be nil.
func NewPrepService(storage ports.Storage, detector ports.WorkspaceDetector, logger *zap.Logger) *PrepService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrepService{
		storage:  storage,
		detector: detector,
		rules:    domain.DefaultGoalRules(),
		logger:   logger.Named("prep"),
		selector: &domain.SequentialSelector{},
	}
}

// SetSelector changes how the highlighted visualization prompt is chosen.
func (s *PrepService) SetSelector(sel domain.Selector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selector = sel
}

// SeedChecklist adds the default items and, when workingDir is a repository
// with uncommitted changes, a reminder to tidy it up.
func (s *PrepService) SeedChecklist(ctx context.Context, workingDir string) error {
	for _, text := range domain.DefaultEnvironmentItems() {
		if err := s.addItemOnce(ctx, text, domain.SourceDefault); err != nil {
			return err
		}
	}

	if s.detector == nil {
		return nil
	}
	info, err := s.detector.Detect(ctx, workingDir)
	if err != nil {
		s.logger.Debug("no workspace detected", zap.Error(err))
		return nil
	}
	if info.IsClean {
		return nil
	}
	s.logger.Info("workspace has pending changes",
		zap.String("branch", info.Branch),
		zap.Int("modified", len(info.Modified)),
		zap.Int("untracked", len(info.Untracked)))
	return s.addItemOnce(ctx, PendingChangesItem, domain.SourceWorkspace)
}

// AddGoal records a goal and adds any checklist items it implies.
func (s *PrepService) AddGoal(ctx context.Context, text string) (*domain.Goal, error) {
	goal, err := domain.NewGoal(text)
	if err != nil {
		return nil, fmt.Errorf("invalid goal: %w", err)
	}
	if err := s.storage.Goals().Save(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to save goal: %w", err)
	}

	for _, rule := range s.rules {
		if rule.Matches(goal.Text) {
			if err := s.addItemOnce(ctx, rule.Item, domain.SourceGoal); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Debug("goal added", zap.String("id", goal.ID))
	return goal, nil
}

// ListGoals returns the goals in the order they were added.
func (s *PrepService) ListGoals(ctx context.Context) ([]*domain.Goal, error) {
	goals, err := s.storage.Goals().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	return goals, nil
}

// AddAffirmation records an affirmation.
func (s *PrepService) AddAffirmation(ctx context.Context, text string) (*domain.Affirmation, error) {
	a, err := domain.NewAffirmation(text)
	if err != nil {
		return nil, fmt.Errorf("invalid affirmation: %w", err)
	}
	if err := s.storage.Affirmations().Save(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to save affirmation: %w", err)
	}
	return a, nil
}

// ListAffirmations returns the affirmations in the order they were added.
func (s *PrepService) ListAffirmations(ctx context.Context) ([]*domain.Affirmation, error) {
	list, err := s.storage.Affirmations().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list affirmations: %w", err)
	}
	return list, nil
}

// Checklist returns the environment checklist.
func (s *PrepService) Checklist(ctx context.Context) ([]*domain.EnvironmentItem, error) {
	items, err := s.storage.Environment().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklist: %w", err)
	}
	return items, nil
}

// ToggleEnvironmentItem flips the checked state of an item.
func (s *PrepService) ToggleEnvironmentItem(ctx context.Context, id string) (*domain.EnvironmentItem, error) {
	item, err := s.storage.Environment().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("checklist item not found: %w", err)
	}
	item.Checked = !item.Checked
	if err := s.storage.Environment().Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update checklist item: %w", err)
	}
	return item, nil
}

// Prompts returns the guiding prompts of the visualization step.
func (s *PrepService) Prompts() []string {
	return domain.VisualizationPrompts()
}

// NextPrompt moves the highlight to another prompt and returns its index.
func (s *PrepService) NextPrompt() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = s.selector.Next(len(domain.VisualizationPrompts()))
	return s.prompt
}

// CurrentPrompt returns the index of the highlighted prompt.
func (s *PrepService) CurrentPrompt() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompt
}

// SetVisualization stores the user's visualization notes.
func (s *PrepService) SetVisualization(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visualization = text
}

// Visualization returns the user's visualization notes.
func (s *PrepService) Visualization() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visualization
}

// Summary collects what the final preparation screen shows.
func (s *PrepService) Summary(ctx context.Context) (domain.Summary, error) {
	var summary domain.Summary

	goals, err := s.ListGoals(ctx)
	if err != nil {
		return summary, err
	}
	for _, g := range goals {
		summary.Goals = append(summary.Goals, *g)
	}

	affirmations, err := s.ListAffirmations(ctx)
	if err != nil {
		return summary, err
	}
	for _, a := range affirmations {
		summary.Affirmations = append(summary.Affirmations, *a)
	}
	return summary, nil
}

func (s *PrepService) addItemOnce(ctx context.Context, text string, source domain.ItemSource) error {
	existing, err := s.storage.Environment().FindByText(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to look up checklist item: %w", err)
	}
	if existing != nil {
		return nil
	}

	item, err := domain.NewEnvironmentItem(text, source)
	if err != nil {
		return fmt.Errorf("invalid checklist item: %w", err)
	}
	if err := s.storage.Environment().Save(ctx, item); err != nil {
		return fmt.Errorf("failed to save checklist item: %w", err)
	}
	return nil
}
