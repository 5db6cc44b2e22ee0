package services

import (
	"context"
	"time"

	"kindtrail/internal/models"
	"kindtrail/internal/repository"

	"github.com/sirupsen/logrus"
)

const (
	// WinnerCount is how many stories win each month.
	WinnerCount = 3
	// WinnerLookback picks the target month: the month of now minus this.
	WinnerLookback = 30 * 24 * time.Hour
)

// Winner 单个获奖者
type Winner struct {
	Rank     int    `json:"rank"`
	StoryID  uint   `json:"story_id"`
	Username string `json:"username"`
	Title    string `json:"title"`
	Cheers   int    `json:"cheers"`
	Payout   Money  `json:"payout"`
	// Archived is true only when this run created the archive row.
	Archived bool `json:"archived"`
}

// WinnerReport is the outcome of one selection run. An empty Winners list
// means the month had no published stories.
type WinnerReport struct {
	Month   string   `json:"month"`
	Pool    Money    `json:"pool"`
	Share   Money    `json:"share"`
	Winners []Winner `json:"winners"`
}

// WinnerService 月度评选
type WinnerService struct {
	store *repository.Store
	prize *PrizeService
	now   func() time.Time
}

func NewWinnerService(store *repository.Store, prize *PrizeService) *WinnerService {
	return &WinnerService{store: store, prize: prize, now: time.Now}
}

func (s *WinnerService) SetClock(now func() time.Time) {
	s.now = now
}

// TargetMonth is the year-month of now minus WinnerLookback.
func TargetMonth(now time.Time) string {
	return now.Add(-WinnerLookback).Format(models.MonthLayout)
}

// PickWinner ranks the target month's stories, computes payouts and
// archives each winner once per month. Repeated runs report the same
// payouts without new archive rows.
func (s *WinnerService) PickWinner(ctx context.Context) (*WinnerReport, error) {
	now := s.now()
	month := TargetMonth(now)
	logCtx := logrus.WithField("month", month)

	stories, err := s.store.TopStoriesForMonth(ctx, month, WinnerCount)
	if err != nil {
		logCtx.WithError(err).Error("Pick winner: ranking failed")
		return nil, ErrPersistence
	}

	report := &WinnerReport{Month: month, Winners: []Winner{}}
	if len(stories) == 0 {
		logCtx.Info("Pick winner: no stories for month")
		return report, nil
	}

	// 订阅人数读取失败时按零奖池继续归档
	report.Pool = s.prize.PrizePool(ctx)
	report.Share = WinnersShare(report.Pool)
	payouts := Payouts(report.Share, len(stories))

	for i, story := range stories {
		w := Winner{
			Rank:     i + 1,
			StoryID:  story.ID,
			Username: story.User.Username,
			Title:    story.Title,
			Cheers:   story.Cheers,
			Payout:   payouts[i],
		}

		exists, err := s.store.ArchiveExists(ctx, story.ID, month)
		if err != nil {
			logCtx.WithError(err).WithField("story_id", story.ID).Error("Pick winner: archive check failed")
			return nil, ErrPersistence
		}
		if !exists {
			created, err := s.store.CreateArchive(ctx, &models.ArchivedStory{
				StoryID:    story.ID,
				Month:      month,
				UserID:     story.UserID,
				Title:      story.Title,
				Body:       story.Body,
				Cheers:     story.Cheers,
				ImagePath:  story.ImagePath,
				Location:   story.Location,
				ArchivedAt: now,
			})
			if err != nil {
				logCtx.WithError(err).WithField("story_id", story.ID).Error("Pick winner: archive failed")
				return nil, ErrPersistence
			}
			w.Archived = created
		}

		report.Winners = append(report.Winners, w)
	}

	logCtx.WithFields(logrus.Fields{
		"winners": len(report.Winners),
		"pool":    report.Pool.String(),
	}).Info("Winners selected")
	return report, nil
}
