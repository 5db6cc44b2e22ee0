package services

import (
	"context"
	"testing"
	"time"

	"kindtrail/internal/config"
	"kindtrail/internal/db"
	"kindtrail/internal/models"
	"kindtrail/internal/repository"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	gdb, err := db.Open(&config.Config{DatabaseURL: ":memory:"})
	require.NoError(t, err)
	return repository.NewStore(gdb)
}

func newStoryService(t *testing.T, store *repository.Store) *StoryService {
	t.Helper()
	svc := NewStoryService(store)
	svc.SetClock(func() time.Time { return testNow })
	return svc
}

func mustUser(t *testing.T, store *repository.Store, name string, subscribed bool) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", Subscribed: subscribed}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func mustPublish(t *testing.T, svc *StoryService, username, title string) uint {
	t.Helper()
	res, err := svc.Submit(context.Background(), SubmitRequest{Username: username, Title: title, Body: "Helped a neighbour today."})
	require.NoError(t, err)
	return res.StoryID
}
