package repository

import (
	"context"
	"errors"
	"fmt"

	"kindtrail/internal/models"

	"gorm.io/gorm"
)

// CreateUser inserts a user; username or email collisions yield ErrDuplicateEntry.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: create user %q: %w", user.Username, err)
	}
	return nil
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find user by username %q: %w", username, err)
	}
	return &user, nil
}

// SetSubscribed flips the subscription flag on. It reports whether a row
// matched the username.
func (s *Store) SetSubscribed(ctx context.Context, username string) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).
		Update("subscribed", true)
	if result.Error != nil {
		return false, fmt.Errorf("gorm: subscribe user %q: %w", username, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *Store) CountSubscribers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("subscribed = ?", true).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count subscribers: %w", err)
	}
	return count, nil
}

func (s *Store) ListUsernames(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.User{}).Order("id ASC").Pluck("username", &names).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list usernames: %w", err)
	}
	return names, nil
}
