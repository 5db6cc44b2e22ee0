package models

import (
	"time"
)

// MonthLayout is the year-month tag format stamped on published stories.
const MonthLayout = "2006-01"

type Story struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title       string    `gorm:"not null" json:"title"`
	Body        string    `gorm:"column:story;type:text;not null" json:"story"`
	Cheers      int       `gorm:"default:0;not null" json:"cheers"`
	SubmittedAt time.Time `gorm:"not null;index" json:"submitted_at"`
	Month       *string   `gorm:"size:7;index" json:"month"` // 草稿为 NULL
	ImagePath   *string   `json:"image_path"`
	Location    *string   `json:"location"`
	Draft       bool      `gorm:"default:false;not null;index" json:"draft"`
}

// MonthTag returns the month the story competes in, or "" for drafts.
func (s *Story) MonthTag() string {
	if s.Month == nil {
		return ""
	}
	return *s.Month
}
