package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kindtrail/internal/models"

	"gorm.io/gorm"
)

// StoryUpdate is an in-place edit of a story owned by UserID.
type StoryUpdate struct {
	StoryID     uint
	UserID      uint
	Title       string
	Body        string
	ImagePath   *string
	Location    *string
	Draft       bool
	SubmittedAt time.Time
	Month       string // stamped only if the story ends up published without a month
}

// LeaderboardRow 用户排行：非草稿故事的 cheer 总数
type LeaderboardRow struct {
	Username    string `json:"username"`
	TotalCheers int64  `json:"total_cheers"`
}

func (s *Store) CreateStory(ctx context.Context, story *models.Story) error {
	if err := s.db.WithContext(ctx).Create(story).Error; err != nil {
		return fmt.Errorf("gorm: create story for user %d: %w", story.UserID, err)
	}
	return nil
}

// UpdateOwnStory edits a story in one statement restricted to (id, user_id).
// A published story never returns to draft, and a draft that gets published
// here receives its month tag. The returned count is 0 when the pair does
// not match.
func (s *Store) UpdateOwnStory(ctx context.Context, u StoryUpdate) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Story{}).
		Where("id = ? AND user_id = ?", u.StoryID, u.UserID).
		Updates(map[string]interface{}{
			"title":        u.Title,
			"story":        u.Body,
			"image_path":   u.ImagePath,
			"location":     u.Location,
			"submitted_at": u.SubmittedAt,
			// SET 右侧读取的都是旧行的值
			"draft": gorm.Expr("draft AND ?", u.Draft),
			"month": gorm.Expr("CASE WHEN draft AND ? THEN month ELSE COALESCE(month, ?) END", u.Draft, u.Month),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: update story %d: %w", u.StoryID, result.Error)
	}
	return result.RowsAffected, nil
}

// CountPublishedSince counts the user's non-draft stories submitted after since.
func (s *Store) CountPublishedSince(ctx context.Context, userID uint, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Story{}).
		Where("user_id = ? AND submitted_at > ? AND draft = ?", userID, since, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count stories for user %d: %w", userID, err)
	}
	return count, nil
}

// IncrementCheers adds one cheer atomically. Unknown ids affect no rows.
func (s *Store) IncrementCheers(ctx context.Context, storyID uint) (int64, error) {
	result := s.db.WithContext(ctx).Model(&models.Story{}).
		Where("id = ?", storyID).
		UpdateColumn("cheers", gorm.Expr("cheers + ?", 1))
	if result.Error != nil {
		return 0, fmt.Errorf("gorm: cheer story %d: %w", storyID, result.Error)
	}
	return result.RowsAffected, nil
}

// ListPublished returns non-draft stories, newest first.
func (s *Store) ListPublished(ctx context.Context) ([]models.Story, error) {
	var stories []models.Story
	err := s.db.WithContext(ctx).Preload("User").
		Where("draft = ?", false).
		Order("id DESC").
		Find(&stories).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list stories: %w", err)
	}
	return stories, nil
}

func (s *Store) FindPublished(ctx context.Context, storyID uint) (*models.Story, error) {
	var story models.Story
	err := s.db.WithContext(ctx).Preload("User").
		Where("id = ? AND draft = ?", storyID, false).
		First(&story).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find story %d: %w", storyID, err)
	}
	return &story, nil
}

// FindOwnStory loads any story (draft or not) owned by userID.
func (s *Store) FindOwnStory(ctx context.Context, storyID, userID uint) (*models.Story, error) {
	var story models.Story
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", storyID, userID).
		First(&story).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gorm: find story %d for user %d: %w", storyID, userID, err)
	}
	return &story, nil
}

func (s *Store) ListDrafts(ctx context.Context, userID uint) ([]models.Story, error) {
	var stories []models.Story
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND draft = ?", userID, true).
		Order("submitted_at DESC").
		Find(&stories).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list drafts for user %d: %w", userID, err)
	}
	return stories, nil
}

// RandomPublishedBody returns the body of one random non-draft story, or
// ErrNotFound when none exist.
func (s *Store) RandomPublishedBody(ctx context.Context) (string, error) {
	var bodies []string
	err := s.db.WithContext(ctx).Model(&models.Story{}).
		Where("draft = ?", false).
		Order("RANDOM()").
		Limit(1).
		Pluck("story", &bodies).Error
	if err != nil {
		return "", fmt.Errorf("gorm: random story: %w", err)
	}
	if len(bodies) == 0 {
		return "", ErrNotFound
	}
	return bodies[0], nil
}

// TopStoriesForMonth ranks the month's non-draft stories by cheers. Ties
// fall back to id order.
func (s *Store) TopStoriesForMonth(ctx context.Context, month string, limit int) ([]models.Story, error) {
	var stories []models.Story
	err := s.db.WithContext(ctx).Joins("User").
		Where("stories.month = ? AND stories.draft = ?", month, false).
		Order("stories.cheers DESC, stories.id ASC").
		Limit(limit).
		Find(&stories).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: top stories for %s: %w", month, err)
	}
	return stories, nil
}

// Leaderboard sums cheers over each user's non-draft stories.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := s.db.WithContext(ctx).Table("stories").
		Select("users.username AS username, SUM(stories.cheers) AS total_cheers").
		Joins("JOIN users ON users.id = stories.user_id").
		Where("stories.draft = ?", false).
		Group("users.id, users.username").
		Order("total_cheers DESC, users.username ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: leaderboard: %w", err)
	}
	return rows, nil
}

// PublishedStats 返回用户已发布故事数和 cheer 总数
func (s *Store) PublishedStats(ctx context.Context, userID uint) (stories int64, cheers int64, err error) {
	var row struct {
		Stories int64
		Cheers  int64
	}
	err = s.db.WithContext(ctx).Model(&models.Story{}).
		Select("COUNT(*) AS stories, COALESCE(SUM(cheers), 0) AS cheers").
		Where("user_id = ? AND draft = ?", userID, false).
		Scan(&row).Error
	if err != nil {
		return 0, 0, fmt.Errorf("gorm: stats for user %d: %w", userID, err)
	}
	return row.Stories, row.Cheers, nil
}
