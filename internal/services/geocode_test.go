package services

import (
	"strconv"
	"testing"
	"time"

	"kindtrail/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocoderLocate(t *testing.T) {
	g, err := NewGeocoder(time.Hour)
	require.NoError(t, err)

	c, ok := g.Locate("  Miami Lakes, FL ")
	require.True(t, ok)
	assert.Equal(t, Coordinates{Lat: 25.9087, Lng: -80.3087}, c)

	_, ok = g.Locate("   ")
	assert.False(t, ok)

	first, ok := g.Locate("Atlantis")
	require.True(t, ok)
	assert.True(t, first.Lat >= -90 && first.Lat <= 90)
	assert.True(t, first.Lng >= -180 && first.Lng <= 180)

	second, _ := g.Locate("atlantis")
	assert.Equal(t, first, second)
}

func TestGeocoderMarkers(t *testing.T) {
	g, err := NewGeocoder(time.Hour)
	require.NoError(t, err)

	uk := "UK"
	stories := []models.Story{
		{ID: 1, Title: "Tea", Location: &uk, User: models.User{Username: "alice"}},
		{ID: 2, Title: "Nowhere"},
	}
	markers := g.Markers(stories)
	require.Len(t, markers, 1)
	assert.Equal(t, Marker{StoryID: 1, Title: "Tea", Username: "alice", Location: "UK", Lat: 55.3781, Lng: -3.4360}, markers[0])
}

func TestCaptcha(t *testing.T) {
	c := NewCaptchaService()
	for i := 0; i < 20; i++ {
		question, answer := c.GenerateMathProblem()
		assert.NotEmpty(t, question)
		assert.GreaterOrEqual(t, answer, 0)
		assert.NoError(t, c.Check(answer, " "+strconv.Itoa(answer)+" "))
		assert.ErrorIs(t, c.Check(answer, "x"), ErrInvalidCaptcha)
	}
}
