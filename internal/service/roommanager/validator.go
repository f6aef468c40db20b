package roommanager

import (
	"fmt"
	"strings"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// ValidationResult - итог проверки одного ответа
type ValidationResult struct {
	IsCorrect bool
	// CorrectAnswer - канонический правильный ответ для обратной связи.
	// Для free_text это не единственный допустимый вариант, а первый эталон.
	CorrectAnswer string
}

// AnswerValidator проверяет ответы против эталонов вопроса
type AnswerValidator struct{}

// NewAnswerValidator создает новый валидатор ответов
func NewAnswerValidator() *AnswerValidator {
	return &AnswerValidator{}
}

// Validate проверяет ответ в зависимости от типа вопроса
func (v *AnswerValidator) Validate(question *entity.Question, sub *AnswerSubmission, lang string) (ValidationResult, error) {
	switch question.Type {
	case entity.TypeMultipleChoice:
		return v.validateChoice(question, sub.OptionIDs), nil
	case entity.TypeFreeText:
		return v.validateFreeText(question, sub.Text, lang), nil
	default:
		return ValidationResult{}, fmt.Errorf("%w: unknown question type %q", apperrors.ErrInvalidRequest, question.Type)
	}
}

// validateChoice сверяет множество выбранных вариантов с множеством правильных.
// Частичные совпадения (подмножество или надмножество) не засчитываются.
func (v *AnswerValidator) validateChoice(question *entity.Question, optionIDs []uint) ValidationResult {
	correct := question.CorrectOptionIDs()

	submitted := make(map[uint]struct{}, len(optionIDs))
	for _, id := range optionIDs {
		submitted[id] = struct{}{}
	}

	isCorrect := len(submitted) == len(correct) && len(correct) > 0
	if isCorrect {
		for id := range submitted {
			if _, ok := correct[id]; !ok {
				isCorrect = false
				break
			}
		}
	}

	var correctTexts []string
	for _, opt := range question.Options {
		if opt.IsCorrect {
			correctTexts = append(correctTexts, opt.Text)
		}
	}

	return ValidationResult{
		IsCorrect:     isCorrect,
		CorrectAnswer: strings.Join(correctTexts, ", "),
	}
}

// validateFreeText сравнивает нормализованный текст с эталонами в их
// хранимом порядке, засчитывая первый эталон с достаточным сходством
func (v *AnswerValidator) validateFreeText(question *entity.Question, text string, lang string) ValidationResult {
	normalized := strings.ToLower(strings.TrimSpace(text))

	keywords := question.KeywordsForLanguage(lang)
	if len(keywords) == 0 {
		return ValidationResult{IsCorrect: false}
	}

	for _, kw := range keywords {
		ratio := similarityRatio(normalized, strings.ToLower(strings.TrimSpace(kw.Text)))
		if ratio >= kw.Threshold {
			return ValidationResult{
				IsCorrect:     true,
				CorrectAnswer: kw.Text,
			}
		}
	}

	// Не совпал ни один эталон, для фидбека берется первый настроенный
	return ValidationResult{
		IsCorrect:     false,
		CorrectAnswer: keywords[0].Text,
	}
}

// similarityRatio возвращает коэффициент сходства строк в [0,1]:
// 2*M/T, где M - суммарная длина общих блоков, T - суммарная длина строк
func similarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingTotal(ra, rb)) / float64(total)
}

// matchingTotal считает суммарную длину общих блоков: находит самую длинную
// общую подстроку и рекурсивно обрабатывает фрагменты слева и справа от нее
func matchingTotal(a, b []rune) int {
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingTotal(a[:ai], b[:bi]) + matchingTotal(a[ai+size:], b[bi+size:])
}

// longestCommonBlock находит самую длинную общую подстроку a и b.
// Возвращает начальные индексы в обеих строках и длину блока.
func longestCommonBlock(a, b []rune) (int, int, int) {
	bestA, bestB, bestSize := 0, 0, 0

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > bestSize {
					bestSize = cur[j]
					bestA = i - bestSize
					bestB = j - bestSize
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
		for j := range cur {
			cur[j] = 0
		}
	}

	return bestA, bestB, bestSize
}
