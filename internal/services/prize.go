package services

import (
	"context"
	"fmt"

	"kindtrail/internal/repository"

	"github.com/sirupsen/logrus"
)

// Money is an amount in cents.
type Money int64

// Units converts whole currency units to Money.
func Units(n int64) Money {
	return Money(n * 100)
}

func (m Money) String() string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	return fmt.Sprintf("%s$%d.%02d", sign, int64(m)/100, int64(m)%100)
}

const (
	// ContributionPerSubscriber is what each subscriber adds to the pool.
	ContributionPerSubscriber = Money(300)
	// DefaultLeaderboardLimit applies when the caller asks for 0 rows.
	DefaultLeaderboardLimit = 10
)

// PayoutPercents is the split of the winners' share by rank.
var PayoutPercents = []int64{50, 30, 20}

// WinnersShare is two thirds of the pool.
func WinnersShare(pool Money) Money {
	return pool * 2 / 3
}

// Payouts splits share across n winners by PayoutPercents. n is capped at
// the number of ranks.
func Payouts(share Money, n int) []Money {
	if n > len(PayoutPercents) {
		n = len(PayoutPercents)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Money, n)
	for i := 0; i < n; i++ {
		out[i] = share * Money(PayoutPercents[i]) / 100
	}
	return out
}

// PrizeService 奖池与排行榜统计，每次调用都重新计算
type PrizeService struct {
	store *repository.Store
}

func NewPrizeService(store *repository.Store) *PrizeService {
	return &PrizeService{store: store}
}

// Pool returns subscriber count × ContributionPerSubscriber.
func (s *PrizeService) Pool(ctx context.Context) (Money, error) {
	count, err := s.store.CountSubscribers(ctx)
	if err != nil {
		logrus.WithError(err).Error("Count subscribers failed")
		return 0, ErrPersistence
	}
	return Money(count) * ContributionPerSubscriber, nil
}

// PrizePool is Pool degraded to zero on storage failure.
func (s *PrizeService) PrizePool(ctx context.Context) Money {
	pool, err := s.Pool(ctx)
	if err != nil {
		return 0
	}
	return pool
}

// Leaderboard ranks users by total cheers on published stories.
func (s *PrizeService) Leaderboard(ctx context.Context, limit int) []repository.LeaderboardRow {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	rows, err := s.store.Leaderboard(ctx, limit)
	if err != nil {
		logrus.WithError(err).Error("Leaderboard failed")
		return []repository.LeaderboardRow{}
	}
	return rows
}
