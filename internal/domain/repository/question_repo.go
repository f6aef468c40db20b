package repository

import (
	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// QuestionRepository определяет методы для чтения пула вопросов.
// Во время игры пул только читается, авторство контента лежит вне ядра.
type QuestionRepository interface {
	// GetByID возвращает вопрос вместе с вариантами и эталонными ответами
	GetByID(id uint) (*entity.Question, error)
	// GetPool возвращает кандидатов для пары (тема, сложность),
	// исключая уже заданные в комнате вопросы
	GetPool(topicID uint, difficulty entity.Difficulty, excludeIDs []uint) ([]entity.Question, error)
	CountPool(topicID uint, difficulty entity.Difficulty) (int64, error)
}
