package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/rohits-web03/accountabilabuddy/internal/apperr"
	"github.com/rohits-web03/accountabilabuddy/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateUser stores a new user with a bcrypt hash of password.
func (s *Store) CreateUser(ctx context.Context, id, username, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       id,
		Username: username,
		Password: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: username %q already exists", apperr.ErrConstraintViolation, username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByUsername returns nil when no user has that username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.firstUser(ctx, "username = ?", username)
}

// GetUserByID returns nil when no user has that id.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.firstUser(ctx, "id = ?", id)
}

// GetUserByCredentials returns the user only when both the username and the
// password match; a wrong password is reported the same way as a missing user.
func (s *Store) GetUserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil
	}
	return user, nil
}

func (s *Store) firstUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error
	switch {
	case err == nil:
		return &user, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
}
