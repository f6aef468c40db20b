package repository

import (
	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// RoomRepository определяет методы для работы с игровыми комнатами
type RoomRepository interface {
	Create(room *entity.GameRoom) error
	GetByID(id uint) (*entity.GameRoom, error)
	GetByCode(code string) (*entity.GameRoom, error)
	Update(room *entity.GameRoom) error
	// CodeExists проверяет занятость кода среди активных комнат
	CodeExists(code string) (bool, error)
	ListActive(limit, offset int) ([]entity.GameRoom, error)
}
