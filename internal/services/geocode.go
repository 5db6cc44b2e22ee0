package services

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"kindtrail/internal/models"
	"kindtrail/internal/utils"
)

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// knownLocations 固定坐标表，key 为小写去空格后的地点
var knownLocations = map[string]Coordinates{
	"usa":             {Lat: 37.0902, Lng: -95.7129},
	"canada":          {Lat: 56.1304, Lng: -106.3468},
	"uk":              {Lat: 55.3781, Lng: -3.4360},
	"france":          {Lat: 46.6034, Lng: 1.8883},
	"brazil":          {Lat: -14.2350, Lng: -51.9253},
	"australia":       {Lat: -25.2744, Lng: 133.7751},
	"miami lakes, fl": {Lat: 25.9087, Lng: -80.3087},
}

const geocodeCacheSize = 1024

// Marker is one story pinned on the map.
type Marker struct {
	StoryID  uint    `json:"story_id"`
	Title    string  `json:"title"`
	Username string  `json:"username"`
	Location string  `json:"location"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

// Geocoder resolves free-text location labels. Unknown labels get random
// coordinates that stay stable for the cache TTL.
type Geocoder struct {
	cache *utils.TTLCache[string, Coordinates]

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewGeocoder(ttl time.Duration) (*Geocoder, error) {
	cache, err := utils.NewTTLCache[string, Coordinates](geocodeCacheSize, ttl)
	if err != nil {
		return nil, err
	}
	return &Geocoder{
		cache: cache,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func normalizeLocation(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Locate returns coordinates for label. ok is false for an empty label.
func (g *Geocoder) Locate(label string) (Coordinates, bool) {
	key := normalizeLocation(label)
	if key == "" {
		return Coordinates{}, false
	}
	if c, ok := knownLocations[key]; ok {
		return c, true
	}
	if c, ok := g.cache.Get(key); ok {
		return c, true
	}

	g.mu.Lock()
	c := Coordinates{
		Lat: g.rnd.Float64()*180 - 90,
		Lng: g.rnd.Float64()*360 - 180,
	}
	g.mu.Unlock()
	g.cache.Set(key, c)
	return c, true
}

// Markers pins every story that has a location.
func (g *Geocoder) Markers(stories []models.Story) []Marker {
	markers := make([]Marker, 0, len(stories))
	for _, st := range stories {
		if st.Location == nil {
			continue
		}
		c, ok := g.Locate(*st.Location)
		if !ok {
			continue
		}
		markers = append(markers, Marker{
			StoryID:  st.ID,
			Title:    st.Title,
			Username: st.User.Username,
			Location: *st.Location,
			Lat:      c.Lat,
			Lng:      c.Lng,
		})
	}
	return markers
}
