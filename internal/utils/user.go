package utils

import (
	"math/rand"
)

// GetKindnessLevel 根据累计获得的 cheer 数返回等级名称和图标
func GetKindnessLevel(cheers int) (name string, icon string) {
	switch {
	case cheers >= 500:
		return "Lighthouse", "🌟"
	case cheers >= 100:
		return "Trailblazer", "🔥"
	case cheers >= 25:
		return "Wayfarer", "🧭"
	case cheers >= 5:
		return "Traveler", "🥾"
	default:
		return "Newcomer", "🌱"
	}
}

// GetRandomEmoji 返回一个随机 emoji 用于默认头像
func GetRandomEmoji() string {
	emojis := []string{"🌱", "🌿", "🍃", "🌻", "🌈", "☀️", "🐢", "🦊", "🐨", "🐸", "🦉", "🐝"}
	return emojis[rand.Intn(len(emojis))]
}
