package services

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"kindtrail/internal/models"
	"kindtrail/internal/repository"
	"kindtrail/internal/utils"

	"github.com/sirupsen/logrus"
)

const (
	// MaxStoriesPerDay caps non-draft submissions in a trailing 24h window.
	MaxStoriesPerDay = 3
	// SnippetWords is the length of the home page quote.
	SnippetWords = 10
	// DefaultSnippet is shown when no published story exists.
	DefaultSnippet = "Kindness is the sunshine that brightens the world."
)

// SubmitRequest 新建或编辑故事的参数。StoryID 为 0 表示新建。
type SubmitRequest struct {
	Username  string
	Title     string
	Body      string
	ImagePath *string
	Location  *string
	StoryID   uint
	Draft     bool
}

// SubmitResult describes a successful submission. For edits Matched is
// false when the id did not belong to the user; the edit is then a no-op
// that still counts as success.
type SubmitResult struct {
	StoryID uint
	Draft   bool
	Updated bool
	Matched bool
}

// StoryService 故事提交、cheer、评论与只读视图
type StoryService struct {
	store *repository.Store
	now   func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewStoryService(store *repository.Store) *StoryService {
	return &StoryService{
		store: store,
		now:   time.Now,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetClock replaces the time source.
func (s *StoryService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *StoryService) validate(title, body string) error {
	if !utils.ValidateTitle(title) {
		return invalid(FieldTitle)
	}
	if !utils.ValidateStory(body) {
		if utils.WordCount(body) > utils.MaxStoryWords {
			return invalid(FieldStoryWords)
		}
		return invalid(FieldStory)
	}
	return nil
}

// Submit runs the submission rules in order: user lookup, subscription gate
// (drafts bypass it), validation, then either an owned in-place edit or a
// rate-limited insert.
func (s *StoryService) Submit(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	logCtx := logrus.WithFields(logrus.Fields{
		"username": req.Username,
		"story_id": req.StoryID,
		"draft":    req.Draft,
	})

	user, err := s.store.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		logCtx.WithError(err).Error("Submit story: user lookup failed")
		return nil, ErrPersistence
	}

	if !user.Subscribed && !req.Draft {
		return nil, ErrSubscriptionRequired
	}

	if err := s.validate(req.Title, req.Body); err != nil {
		logCtx.WithError(err).Debug("Submit story: validation failed")
		return nil, err
	}

	now := s.now()
	month := now.Format(models.MonthLayout)

	if req.StoryID != 0 {
		rows, err := s.store.UpdateOwnStory(ctx, repository.StoryUpdate{
			StoryID:     req.StoryID,
			UserID:      user.ID,
			Title:       req.Title,
			Body:        req.Body,
			ImagePath:   req.ImagePath,
			Location:    req.Location,
			Draft:       req.Draft,
			SubmittedAt: now,
			Month:       month,
		})
		if err != nil {
			logCtx.WithError(err).Error("Submit story: update failed")
			return nil, ErrPersistence
		}
		if rows == 0 {
			logCtx.Warn("Submit story: edit matched no story owned by user")
		}
		return &SubmitResult{StoryID: req.StoryID, Draft: req.Draft, Updated: true, Matched: rows > 0}, nil
	}

	if !req.Draft {
		count, err := s.store.CountPublishedSince(ctx, user.ID, now.Add(-24*time.Hour))
		if err != nil {
			logCtx.WithError(err).Error("Submit story: rate limit count failed")
			return nil, ErrPersistence
		}
		if count >= MaxStoriesPerDay {
			logCtx.WithField("count", count).Info("Submit story: daily limit reached")
			return nil, ErrRateLimitExceeded
		}
	}

	story := &models.Story{
		UserID:      user.ID,
		Title:       req.Title,
		Body:        req.Body,
		SubmittedAt: now,
		ImagePath:   req.ImagePath,
		Location:    req.Location,
		Draft:       req.Draft,
	}
	if !req.Draft {
		story.Month = &month
	}
	if err := s.store.CreateStory(ctx, story); err != nil {
		logCtx.WithError(err).Error("Submit story: insert failed")
		return nil, ErrPersistence
	}

	logCtx.WithField("new_story_id", story.ID).Info("Story submitted")
	return &SubmitResult{StoryID: story.ID, Draft: req.Draft, Matched: true}, nil
}

// Cheer adds one cheer. An unknown story id is not an error.
func (s *StoryService) Cheer(ctx context.Context, username string, storyID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "story_id": storyID})

	rows, err := s.store.IncrementCheers(ctx, storyID)
	if err != nil {
		logCtx.WithError(err).Error("Cheer story failed")
		return ErrPersistence
	}
	if rows == 0 {
		logCtx.Warn("Cheer matched no story")
	}
	return nil
}

// ListPublished 首页与故事列表，数据库出错时返回空列表
func (s *StoryService) ListPublished(ctx context.Context) []models.Story {
	stories, err := s.store.ListPublished(ctx)
	if err != nil {
		logrus.WithError(err).Error("View stories failed")
		return []models.Story{}
	}
	return stories
}

// StoryDetail loads a published story with its comments.
func (s *StoryService) StoryDetail(ctx context.Context, storyID uint) (*models.Story, []models.Comment, error) {
	story, err := s.store.FindPublished(ctx, storyID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrStoryNotFound
		}
		logrus.WithError(err).WithField("story_id", storyID).Error("Story detail failed")
		return nil, nil, ErrPersistence
	}
	return story, s.ListComments(ctx, storyID), nil
}

// OwnStory loads a story for editing by its owner, drafts included.
func (s *StoryService) OwnStory(ctx context.Context, username string, storyID uint) (*models.Story, error) {
	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, ErrPersistence
	}
	story, err := s.store.FindOwnStory(ctx, storyID, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoryNotFound
		}
		logrus.WithError(err).WithField("story_id", storyID).Error("Load own story failed")
		return nil, ErrPersistence
	}
	return story, nil
}

func (s *StoryService) ListDrafts(ctx context.Context, username string) []models.Story {
	logCtx := logrus.WithField("username", username)
	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logCtx.WithError(err).Error("List drafts: user lookup failed")
		}
		return []models.Story{}
	}
	drafts, err := s.store.ListDrafts(ctx, user.ID)
	if err != nil {
		logCtx.WithError(err).Error("List drafts failed")
		return []models.Story{}
	}
	return drafts
}

// RandomSnippet returns a random window of SnippetWords words from a random
// published story.
func (s *StoryService) RandomSnippet(ctx context.Context) string {
	body, err := s.store.RandomPublishedBody(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logrus.WithError(err).Error("Random snippet failed")
		}
		return DefaultSnippet
	}

	words := strings.Fields(body)
	if len(words) == 0 {
		return DefaultSnippet
	}
	if len(words) <= SnippetWords {
		return strings.Join(words, " ")
	}

	s.mu.Lock()
	start := s.rnd.Intn(len(words) - SnippetWords + 1)
	s.mu.Unlock()
	return strings.Join(words[start:start+SnippetWords], " ")
}

// ListArchived 往期获奖故事
func (s *StoryService) ListArchived(ctx context.Context) []models.ArchivedStory {
	archived, err := s.store.ListArchived(ctx)
	if err != nil {
		logrus.WithError(err).Error("View archived stories failed")
		return []models.ArchivedStory{}
	}
	return archived
}

// AddComment appends a comment. An empty username posts anonymously.
func (s *StoryService) AddComment(ctx context.Context, storyID uint, username, body string) (*models.Comment, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "story_id": storyID})

	if !utils.ValidateComment(body) {
		return nil, invalid(FieldComment)
	}

	if _, err := s.store.FindPublished(ctx, storyID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStoryNotFound
		}
		logCtx.WithError(err).Error("Add comment: story lookup failed")
		return nil, ErrPersistence
	}

	comment := &models.Comment{StoryID: storyID, Body: body}
	if username != "" {
		user, err := s.store.FindUserByUsername(ctx, username)
		switch {
		case err == nil:
			comment.UserID = &user.ID
		case errors.Is(err, repository.ErrNotFound):
			// 会话中的用户已不存在，按匿名处理
		default:
			logCtx.WithError(err).Error("Add comment: user lookup failed")
			return nil, ErrPersistence
		}
	}

	if err := s.store.CreateComment(ctx, comment); err != nil {
		logCtx.WithError(err).Error("Add comment failed")
		return nil, ErrPersistence
	}
	return comment, nil
}

func (s *StoryService) ListComments(ctx context.Context, storyID uint) []models.Comment {
	comments, err := s.store.ListComments(ctx, storyID)
	if err != nil {
		logrus.WithError(err).WithField("story_id", storyID).Error("List comments failed")
		return []models.Comment{}
	}
	return comments
}
