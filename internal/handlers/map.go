package handlers

import (
	"net/http"

	"kindtrail/internal/services"

	"github.com/gin-gonic/gin"
)

type MapHandler struct {
	stories  *services.StoryService
	geocoder *services.Geocoder
}

func NewMapHandler(stories *services.StoryService, geocoder *services.Geocoder) *MapHandler {
	return &MapHandler{stories: stories, geocoder: geocoder}
}

func (h *MapHandler) markers(c *gin.Context) []services.Marker {
	return h.geocoder.Markers(h.stories.ListPublished(c.Request.Context()))
}

func (h *MapHandler) Map(c *gin.Context) {
	Render(c, http.StatusOK, "map.html", gin.H{"Markers": h.markers(c)})
}

// MapJSON feeds the client-side map.
func (h *MapHandler) MapJSON(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"markers": h.markers(c)})
}
