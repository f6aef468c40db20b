package entity

import (
	"strings"
	"time"
)

// QuestionType определяет тип вопроса: выбор вариантов или свободный текст
type QuestionType string

const (
	// TypeMultipleChoice - вопрос с вариантами ответа (один или несколько правильных)
	TypeMultipleChoice QuestionType = "multiple_choice"
	// TypeFreeText - вопрос со свободным текстовым ответом и нечетким сравнением
	TypeFreeText QuestionType = "free_text"
)

// Difficulty определяет уровень сложности вопроса
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyHeavy  Difficulty = "heavy"
)

// IsValid проверяет, что сложность относится к известному набору
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyHeavy:
		return true
	}
	return false
}

// Question представляет вопрос викторины
type Question struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	TopicID      uint         `gorm:"not null;index" json:"topic_id"`
	Type         QuestionType `gorm:"size:20;not null;default:'multiple_choice'" json:"type"`
	Difficulty   Difficulty   `gorm:"size:10;not null;index:idx_questions_pool" json:"difficulty"`
	Text         string       `gorm:"size:1000;not null" json:"text"`
	TimeLimitSec int          `gorm:"not null;default:30" json:"time_limit_sec"`

	// Options заполняется только для multiple_choice вопросов
	Options []QuestionOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	// Keywords заполняется только для free_text вопросов
	Keywords []AnswerKeyword `gorm:"foreignKey:QuestionID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// QuestionOption представляет один вариант ответа.
// Флаг IsCorrect никогда не отдается клиентам.
type QuestionOption struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"size:500;not null" json:"text"`
	IsCorrect  bool   `gorm:"not null;default:false" json:"-"`
}

// TableName определяет имя таблицы для GORM
func (QuestionOption) TableName() string {
	return "question_options"
}

// AnswerKeyword представляет эталонный ответ для free_text вопросов.
// Threshold - минимальный коэффициент сходства [0,1], при котором ответ засчитывается.
type AnswerKeyword struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	QuestionID uint    `gorm:"not null;index" json:"question_id"`
	Text       string  `gorm:"size:255;not null" json:"text"`
	Threshold  float64 `gorm:"not null;default:0.8" json:"threshold"`
	Language   string  `gorm:"size:5;not null;default:'en'" json:"language"`
}

// TableName определяет имя таблицы для GORM
func (AnswerKeyword) TableName() string {
	return "answer_keywords"
}

// CorrectOptionIDs возвращает множество идентификаторов правильных вариантов
func (q *Question) CorrectOptionIDs() map[uint]struct{} {
	ids := make(map[uint]struct{})
	for _, opt := range q.Options {
		if opt.IsCorrect {
			ids[opt.ID] = struct{}{}
		}
	}
	return ids
}

// HasOption проверяет, принадлежит ли вариант этому вопросу
func (q *Question) HasOption(optionID uint) bool {
	for _, opt := range q.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}

// KeywordsForLanguage возвращает эталонные ответы для указанного языка,
// сохраняя их исходный порядок. Если для языка ничего нет, возвращает все.
func (q *Question) KeywordsForLanguage(lang string) []AnswerKeyword {
	lang = strings.ToLower(strings.TrimSpace(lang))
	var matched []AnswerKeyword
	for _, kw := range q.Keywords {
		if strings.ToLower(kw.Language) == lang {
			matched = append(matched, kw)
		}
	}
	if len(matched) == 0 {
		return q.Keywords
	}
	return matched
}
