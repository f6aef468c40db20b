package repository

import (
	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// ParticipantRepository определяет методы для работы с участниками комнат
type ParticipantRepository interface {
	Create(participant *entity.Participant) error
	GetByRoomAndUser(roomID, userID uint) (*entity.Participant, error)
	// ListByRoom возвращает участников в порядке входа (join_order)
	ListByRoom(roomID uint) ([]entity.Participant, error)
	Update(participant *entity.Participant) error
	CountByRoom(roomID uint) (int64, error)
}
