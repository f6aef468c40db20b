package roommanager

import (
	"fmt"
	"math/rand"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	"github.com/yourusername/quizroom-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// QuestionBank выбирает вопросы для комнаты из пула (тема, сложность).
// Пул только читается, изменение контента лежит вне ядра.
type QuestionBank struct {
	questionRepo repository.QuestionRepository
}

// NewQuestionBank создает новый банк вопросов
func NewQuestionBank(questionRepo repository.QuestionRepository) *QuestionBank {
	return &QuestionBank{questionRepo: questionRepo}
}

// PickQuestion выбирает случайный вопрос из пула комнаты,
// исключая уже заданные в этой комнате вопросы.
// Возвращает ErrNotFound при исчерпании пула.
func (b *QuestionBank) PickQuestion(room *entity.GameRoom) (*entity.Question, error) {
	candidates, err := b.questionRepo.GetPool(room.TopicID, room.Difficulty, room.AskedQuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("load question pool for room %s: %w", room.Code, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: question pool exhausted for room %s", apperrors.ErrNotFound, room.Code)
	}

	question := candidates[rand.Intn(len(candidates))]
	return &question, nil
}

// PoolSize возвращает полный размер пула для параметров комнаты
func (b *QuestionBank) PoolSize(room *entity.GameRoom) (int64, error) {
	return b.questionRepo.CountPool(room.TopicID, room.Difficulty)
}

// ShuffledOptions возвращает варианты вопроса в новом случайном порядке.
// Перестановка уникальна для каждого вызова, идентификаторы вариантов стабильны.
func ShuffledOptions(question *entity.Question) []entity.QuestionOption {
	shuffled := make([]entity.QuestionOption, len(question.Options))
	copy(shuffled, question.Options)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}
