package models

import (
	"time"
)

// ArchivedStory is an immutable snapshot of a monthly winner. At most one
// row exists per (story_id, month).
type ArchivedStory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StoryID    uint      `gorm:"not null;uniqueIndex:idx_archived_story_month" json:"story_id"`
	Month      string    `gorm:"size:7;not null;uniqueIndex:idx_archived_story_month;index" json:"month"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	User       User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title      string    `gorm:"not null" json:"title"`
	Body       string    `gorm:"column:story;type:text;not null" json:"story"`
	Cheers     int       `gorm:"not null" json:"cheers"`
	ImagePath  *string   `json:"image_path"`
	Location   *string   `json:"location"`
	ArchivedAt time.Time `gorm:"not null;index" json:"archived_at"`
}

func (ArchivedStory) TableName() string {
	return "archived_stories"
}
