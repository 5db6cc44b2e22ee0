package router

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	r, err := LoadTemplates("../../web/templates")
	require.NoError(t, err)
	for _, view := range views {
		assert.NotNil(t, r.Instance(view, nil), view)
	}

	_, err = LoadTemplates(t.TempDir())
	assert.Error(t, err)
}

func TestTimeAgo(t *testing.T) {
	assert.Equal(t, "just now", timeAgo(time.Now()))
	assert.Equal(t, "3h ago", timeAgo(time.Now().Add(-3*time.Hour-time.Minute)))
	assert.Equal(t, "2d ago", timeAgo(time.Now().Add(-49*time.Hour)))
}
