package entity

import "time"

// Слаги встроенного набора достижений
const (
	AchievementFirstGame   = "first_game"
	AchievementStreak5     = "streak_5"
	AchievementStreak10    = "streak_10"
	AchievementPerfectGame = "perfect_game"
)

// Achievement представляет именованную веху, выдаваемую не более одного раза на пользователя
type Achievement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"size:50;not null;uniqueIndex" json:"slug"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"size:500;not null;default:''" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement фиксирует факт разблокировки достижения.
// Уникальный индекс по (user_id, achievement_id) обеспечивает идемпотентность выдачи.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievements_pair" json:"user_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_achievements_pair" json:"achievement_id"`
	UnlockedAt    time.Time `gorm:"not null" json:"unlocked_at"`
}

// TableName определяет имя таблицы для GORM
func (UserAchievement) TableName() string {
	return "user_achievements"
}
