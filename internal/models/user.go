package models

import (
	"time"
)

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"uniqueIndex;not null" json:"username"` // [A-Za-z0-9_]+
	Email      string    `gorm:"uniqueIndex;not null" json:"email"`
	Subscribed bool      `gorm:"default:false;not null;index" json:"subscribed"` // 仅由支付成功回调置为 true
	Avatar     string    `json:"avatar"`                                         // emoji 头像
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
