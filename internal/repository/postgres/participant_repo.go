package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// ParticipantRepo реализует repository.ParticipantRepository
type ParticipantRepo struct {
	db *gorm.DB
}

// NewParticipantRepo создает новый репозиторий участников
func NewParticipantRepo(db *gorm.DB) *ParticipantRepo {
	return &ParticipantRepo{db: db}
}

// Create создает запись участника. Уникальный индекс по (room_id, user_id)
// превращает повторный вход в 23505, которая возвращается как ErrConflict.
func (r *ParticipantRepo) Create(participant *entity.Participant) error {
	if err := r.db.Create(participant).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: participant room=%d user=%d",
				apperrors.ErrConflict, participant.RoomID, participant.UserID)
		}
		return err
	}
	return nil
}

// GetByRoomAndUser возвращает участника по паре (комната, пользователь)
func (r *ParticipantRepo) GetByRoomAndUser(roomID, userID uint) (*entity.Participant, error) {
	var participant entity.Participant
	err := r.db.Where("room_id = ? AND user_id = ?", roomID, userID).First(&participant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &participant, nil
}

// ListByRoom возвращает участников комнаты в порядке входа
func (r *ParticipantRepo) ListByRoom(roomID uint) ([]entity.Participant, error) {
	var participants []entity.Participant
	err := r.db.Where("room_id = ?", roomID).Order("join_order").Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// Update обновляет состояние участника
func (r *ParticipantRepo) Update(participant *entity.Participant) error {
	return r.db.Save(participant).Error
}

// CountByRoom возвращает количество участников комнаты
func (r *ParticipantRepo) CountByRoom(roomID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Participant{}).Where("room_id = ?", roomID).Count(&count).Error
	return count, err
}
