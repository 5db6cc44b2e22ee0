package repository

import (
	"context"
	"fmt"

	"kindtrail/internal/models"

	"gorm.io/gorm/clause"
)

func (s *Store) ArchiveExists(ctx context.Context, storyID uint, month string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ArchivedStory{}).
		Where("story_id = ? AND month = ?", storyID, month).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: check archive for story %d in %s: %w", storyID, month, err)
	}
	return count > 0, nil
}

// CreateArchive inserts the snapshot unless (story_id, month) already exists.
// The unique index is the real guard; created is false when it fired.
func (s *Store) CreateArchive(ctx context.Context, archived *models.ArchivedStory) (created bool, err error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "story_id"}, {Name: "month"}},
			DoNothing: true,
		}).
		Create(archived)
	if result.Error != nil {
		if isDuplicateEntryError(result.Error) {
			return false, nil
		}
		return false, fmt.Errorf("gorm: archive story %d for %s: %w", archived.StoryID, archived.Month, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListArchived returns archived winners, most recently archived first.
func (s *Store) ListArchived(ctx context.Context) ([]models.ArchivedStory, error) {
	var archived []models.ArchivedStory
	err := s.db.WithContext(ctx).Preload("User").
		Order("archived_at DESC, id DESC").
		Find(&archived).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list archived stories: %w", err)
	}
	return archived, nil
}

func (s *Store) CountWins(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.ArchivedStory{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count wins for user %d: %w", userID, err)
	}
	return count, nil
}
