package services

import (
	"context"
	"errors"

	"kindtrail/internal/models"
	"kindtrail/internal/repository"
	"kindtrail/internal/utils"

	"github.com/sirupsen/logrus"
)

// UserService 用户注册、查找与订阅状态
type UserService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store}
}

// UserStats 用户主页展示的统计
type UserStats struct {
	Username   string
	Avatar     string
	Subscribed bool
	Stories    int64
	Cheers     int64
	Wins       int64
	LevelName  string
	LevelIcon  string
}

// Find looks up a user by exact username.
func (s *UserService) Find(ctx context.Context, username string) (*models.User, error) {
	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).WithField("username", username).Error("Find user failed")
		return nil, ErrPersistence
	}
	return user, nil
}

// Exists reports whether username is registered.
func (s *UserService) Exists(ctx context.Context, username string) (bool, error) {
	_, err := s.Find(ctx, username)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUserNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Register creates an unsubscribed user with a random avatar.
func (s *UserService) Register(ctx context.Context, username, email string) (*models.User, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": username, "email": email})

	if !utils.ValidateUsername(username) {
		return nil, invalid(FieldUsername)
	}
	if !utils.ValidateEmail(email) {
		return nil, invalid(FieldEmail)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Avatar:   utils.GetRandomEmoji(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			logCtx.Warn("Registration failed: username or email already exists")
			return nil, ErrUsernameTaken
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrPersistence
	}

	logCtx.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// FindOrCreate resolves a login name, registering unknown usernames with a
// placeholder email <username>@example.com. created reports a new account.
func (s *UserService) FindOrCreate(ctx context.Context, username string) (user *models.User, created bool, err error) {
	if !utils.ValidateUsername(username) {
		return nil, false, invalid(FieldUsername)
	}

	user, err = s.Find(ctx, username)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user, err = s.Register(ctx, username, username+"@example.com")
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Subscribe marks the user as a subscriber. Only the payment success
// callback calls this.
func (s *UserService) Subscribe(ctx context.Context, username string) error {
	ok, err := s.store.SetSubscribed(ctx, username)
	if err != nil {
		logrus.WithError(err).WithField("username", username).Error("Subscribe user failed")
		return ErrPersistence
	}
	if !ok {
		return ErrUserNotFound
	}
	logrus.WithField("username", username).Info("User subscribed")
	return nil
}

// ExistingUsernames lists every username, or nothing on storage failure.
func (s *UserService) ExistingUsernames(ctx context.Context) []string {
	names, err := s.store.ListUsernames(ctx)
	if err != nil {
		logrus.WithError(err).Error("Get existing users failed")
		return []string{}
	}
	return names
}

func (s *UserService) Email(ctx context.Context, username string) (string, error) {
	user, err := s.Find(ctx, username)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

// Stats 汇总用户的已发布故事数、累计 cheer 和获奖次数
func (s *UserService) Stats(ctx context.Context, username string) (*UserStats, error) {
	user, err := s.Find(ctx, username)
	if err != nil {
		return nil, err
	}

	logCtx := logrus.WithField("username", username)
	stories, cheers, err := s.store.PublishedStats(ctx, user.ID)
	if err != nil {
		logCtx.WithError(err).Error("User stats failed")
		return nil, ErrPersistence
	}
	wins, err := s.store.CountWins(ctx, user.ID)
	if err != nil {
		logCtx.WithError(err).Error("User wins failed")
		return nil, ErrPersistence
	}

	levelName, levelIcon := utils.GetKindnessLevel(int(cheers))
	return &UserStats{
		Username:   user.Username,
		Avatar:     user.Avatar,
		Subscribed: user.Subscribed,
		Stories:    stories,
		Cheers:     cheers,
		Wins:       wins,
		LevelName:  levelName,
		LevelIcon:  levelIcon,
	}, nil
}
