package repository

import (
	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// AchievementRepository определяет методы для работы с достижениями
type AchievementRepository interface {
	GetBySlug(slug string) (*entity.Achievement, error)
	List() ([]entity.Achievement, error)
	// Unlock выдает достижение пользователю. Возвращает true, если выдача
	// произошла впервые, и false при повторе (идемпотентность по паре user/achievement).
	Unlock(userID, achievementID uint) (bool, error)
	ListForUser(userID uint) ([]entity.Achievement, error)
}
