package ports

import (
	"context"

	"github.com/xvierd/prep-cli/internal/domain"
)

// GoalRepository stores the goals set for the current session.
type GoalRepository interface {
	Save(ctx context.Context, goal *domain.Goal) error
	FindAll(ctx context.Context) ([]*domain.Goal, error)
}

// AffirmationRepository stores the affirmations written for the current session.
type AffirmationRepository interface {
	Save(ctx context.Context, affirmation *domain.Affirmation) error
	FindAll(ctx context.Context) ([]*domain.Affirmation, error)
}

// EnvironmentRepository stores the environment checklist.
type EnvironmentRepository interface {
	Save(ctx context.Context, item *domain.EnvironmentItem) error

	// FindByID returns domain.ErrItemNotFound when no item has the id.
	FindByID(ctx context.Context, id string) (*domain.EnvironmentItem, error)

	// FindByText looks up an item by its exact text; it returns nil, nil when absent.
	FindByText(ctx context.Context, text string) (*domain.EnvironmentItem, error)

	FindAll(ctx context.Context) ([]*domain.EnvironmentItem, error)
	Update(ctx context.Context, item *domain.EnvironmentItem) error
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	Goals() GoalRepository
	Affirmations() AffirmationRepository
	Environment() EnvironmentRepository

	// Close releases the underlying database.
	Close() error

	// Migrate creates the schema.
	Migrate() error
}
