package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// TopicRepo реализует repository.TopicRepository
type TopicRepo struct {
	db *gorm.DB
}

// NewTopicRepo создает новый репозиторий тем
func NewTopicRepo(db *gorm.DB) *TopicRepo {
	return &TopicRepo{db: db}
}

// GetByID возвращает тему по ID
func (r *TopicRepo) GetByID(id uint) (*entity.Topic, error) {
	var topic entity.Topic
	err := r.db.First(&topic, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &topic, nil
}

// List возвращает все темы в алфавитном порядке
func (r *TopicRepo) List() ([]entity.Topic, error) {
	var topics []entity.Topic
	err := r.db.Order("name").Find(&topics).Error
	if err != nil {
		return nil, err
	}
	return topics, nil
}
