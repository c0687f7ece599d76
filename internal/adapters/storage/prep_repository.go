package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xvierd/prep-cli/internal/domain"
)

// goalRepository implements ports.GoalRepository using SQLite.
type goalRepository struct {
	db *sql.DB
}

// Save stores a goal.
func (r *goalRepository) Save(ctx context.Context, goal *domain.Goal) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO goals (id, text) VALUES (?, ?)`, goal.ID, goal.Text)
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}
	return nil
}

// FindAll returns goals in the order they were added.
func (r *goalRepository) FindAll(ctx context.Context) ([]*domain.Goal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, text FROM goals ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var goals []*domain.Goal
	for rows.Next() {
		var g domain.Goal
		if err := rows.Scan(&g.ID, &g.Text); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, &g)
	}
	return goals, rows.Err()
}

// affirmationRepository implements ports.AffirmationRepository using SQLite.
type affirmationRepository struct {
	db *sql.DB
}

// Save stores an affirmation.
func (r *affirmationRepository) Save(ctx context.Context, a *domain.Affirmation) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO affirmations (id, text) VALUES (?, ?)`, a.ID, a.Text)
	if err != nil {
		return fmt.Errorf("failed to save affirmation: %w", err)
	}
	return nil
}

// FindAll returns affirmations in the order they were added.
func (r *affirmationRepository) FindAll(ctx context.Context) ([]*domain.Affirmation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, text FROM affirmations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query affirmations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*domain.Affirmation
	for rows.Next() {
		var a domain.Affirmation
		if err := rows.Scan(&a.ID, &a.Text); err != nil {
			return nil, fmt.Errorf("failed to scan affirmation: %w", err)
		}
		result = append(result, &a)
	}
	return result, rows.Err()
}

// environmentRepository implements ports.EnvironmentRepository using SQLite.
type environmentRepository struct {
	db *sql.DB
}

const environmentColumns = `id, text, checked, source`

// Save stores a checklist item.
func (r *environmentRepository) Save(ctx context.Context, item *domain.EnvironmentItem) error {
	query := `INSERT INTO environment_items (` + environmentColumns + `) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, item.ID, item.Text, item.Checked, string(item.Source))
	if err != nil {
		return fmt.Errorf("failed to save environment item: %w", err)
	}
	return nil
}

// FindByID retrieves a checklist item by its identifier.
func (r *environmentRepository) FindByID(ctx context.Context, id string) (*domain.EnvironmentItem, error) {
	query := `SELECT ` + environmentColumns + ` FROM environment_items WHERE id = ?`
	item, err := scanEnvironmentItem(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find environment item: %w", err)
	}
	return item, nil
}

// FindByText retrieves a checklist item by its exact text.
func (r *environmentRepository) FindByText(ctx context.Context, text string) (*domain.EnvironmentItem, error) {
	query := `SELECT ` + environmentColumns + ` FROM environment_items WHERE text = ? ORDER BY seq LIMIT 1`
	item, err := scanEnvironmentItem(r.db.QueryRowContext(ctx, query, text))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find environment item: %w", err)
	}
	return item, nil
}

// FindAll returns the checklist in the order items were added.
func (r *environmentRepository) FindAll(ctx context.Context) ([]*domain.EnvironmentItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+environmentColumns+` FROM environment_items ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query environment items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []*domain.EnvironmentItem
	for rows.Next() {
		item, err := scanEnvironmentItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan environment item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Update writes the checked state and text of an existing item.
func (r *environmentRepository) Update(ctx context.Context, item *domain.EnvironmentItem) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE environment_items SET text = ?, checked = ?, source = ? WHERE id = ?`,
		item.Text, item.Checked, string(item.Source), item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update environment item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnvironmentItem(row rowScanner) (*domain.EnvironmentItem, error) {
	var item domain.EnvironmentItem
	var source string
	if err := row.Scan(&item.ID, &item.Text, &item.Checked, &source); err != nil {
		return nil, err
	}
	item.Source = domain.ItemSource(source)
	return &item, nil
}
