package repository

import (
	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	// UpdateStats атомарно перезаписывает агрегированную статистику пользователя
	UpdateStats(user *entity.User) error
	IncrementGamesPlayed(userID uint) error
	// GetLeaderboard возвращает пользователей по убыванию total_points с пагинацией
	GetLeaderboard(limit, offset int) ([]entity.User, int64, error)
}
