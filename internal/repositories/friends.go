package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/rohits-web03/accountabilabuddy/internal/apperr"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
	"gorm.io/gorm"
)

// AddFriendEdge grants userID visibility of friendUserID's public todos.
// No back-edge is created.
func (s *Store) AddFriendEdge(ctx context.Context, userID, friendUserID string) error {
	edge := models.Friend{UserID: userID, FriendUserID: friendUserID}
	err := s.db.WithContext(ctx).Omit("User", "FriendUser").Create(&edge).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: already friends", apperr.ErrConstraintViolation)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: user does not exist", apperr.ErrNotFound)
	default:
		return fmt.Errorf("failed to add friend: %w", err)
	}
}

// GetFriends returns the ids userID has added as friends.
func (s *Store) GetFriends(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).
		Model(&models.Friend{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Pluck("friend_user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get friends: %w", err)
	}
	return ids, nil
}

// GetPublicTodosFromFriends returns the public todos of everyone userID has
// added. With no friends it returns without querying todos.
func (s *Store) GetPublicTodosFromFriends(ctx context.Context, userID string) ([]models.Todo, error) {
	friends, err := s.GetFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	todos := []models.Todo{}
	if len(friends) == 0 {
		return todos, nil
	}

	err = s.db.WithContext(ctx).
		Where("user_id IN ? AND visibility = ?", friends, models.VisibilityPublic).
		Order("created_at, id").
		Find(&todos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get friends' todos: %w", err)
	}
	return todos, nil
}
