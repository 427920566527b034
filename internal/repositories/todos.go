package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rohits-web03/accountabilabuddy/internal/apperr"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
	"gorm.io/gorm"
)

// CreateTodo inserts todo, stamping both timestamps with the current instant.
// The owner must exist.
func (s *Store) CreateTodo(ctx context.Context, todo *models.Todo) error {
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now

	err := s.db.WithContext(ctx).Omit("Owner").Create(todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: owner %s does not exist", apperr.ErrNotFound, todo.UserID)
		}
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// GetTodosForUser returns every todo owned by userID in creation order.
func (s *Store) GetTodosForUser(ctx context.Context, userID string) ([]models.Todo, error) {
	todos := []models.Todo{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&todos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get todos: %w", err)
	}
	return todos, nil
}

// UpdateTodo writes exactly the fields present in patch and refreshes
// updated_at. An empty patch does not touch storage.
func (s *Store) UpdateTodo(ctx context.Context, id string, patch models.TodoPatch) error {
	cols := patch.Columns()
	if len(cols) == 0 {
		return nil
	}
	cols["updated_at"] = time.Now().UTC()

	err := s.db.WithContext(ctx).
		Model(&models.Todo{}).
		Where("id = ?", id).
		UpdateColumns(cols).Error
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	return nil
}

// DeleteTodo removes the todo permanently; a missing id affects zero rows.
func (s *Store) DeleteTodo(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Todo{}).Error; err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}
