package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// GetByID возвращает вопрос вместе с вариантами и эталонными ответами
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Keywords", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetPool возвращает кандидатов для пары (тема, сложность),
// исключая уже заданные в комнате вопросы
func (r *QuestionRepo) GetPool(topicID uint, difficulty entity.Difficulty, excludeIDs []uint) ([]entity.Question, error) {
	var questions []entity.Question

	query := r.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Keywords", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("topic_id = ? AND difficulty = ?", topicID, difficulty)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	err := query.Order("id").Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// CountPool возвращает размер пула для пары (тема, сложность)
func (r *QuestionRepo) CountPool(topicID uint, difficulty entity.Difficulty) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Question{}).
		Where("topic_id = ? AND difficulty = ?", topicID, difficulty).
		Count(&count).Error
	return count, err
}
