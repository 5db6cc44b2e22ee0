package repository

import (
	"context"
	"fmt"

	"kindtrail/internal/models"
)

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return fmt.Errorf("gorm: create comment on story %d: %w", comment.StoryID, err)
	}
	return nil
}

// ListComments returns a story's comments oldest first.
func (s *Store) ListComments(ctx context.Context, storyID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Preload("User").
		Where("story_id = ?", storyID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list comments for story %d: %w", storyID, err)
	}
	return comments, nil
}
