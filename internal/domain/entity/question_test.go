package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_CorrectOptionIDs(t *testing.T) {
	// Arrange: вопрос с несколькими правильными вариантами
	question := &Question{
		ID:   1,
		Type: TypeMultipleChoice,
		Options: []QuestionOption{
			{ID: 10, Text: "Python", IsCorrect: false},
			{ID: 11, Text: "Go", IsCorrect: true},
			{ID: 12, Text: "Java", IsCorrect: false},
			{ID: 13, Text: "Rust", IsCorrect: true},
		},
	}

	// Act
	ids := question.CorrectOptionIDs()

	// Assert
	assert.Len(t, ids, 2, "Должно быть 2 правильных варианта")
	assert.Contains(t, ids, uint(11))
	assert.Contains(t, ids, uint(13))
}

func TestQuestion_CorrectOptionIDs_NoOptions(t *testing.T) {
	// Arrange
	question := &Question{Type: TypeFreeText}

	// Act & Assert
	assert.Empty(t, question.CorrectOptionIDs(), "Для вопроса без вариантов должно вернуться пустое множество")
}

func TestQuestion_HasOption(t *testing.T) {
	// Arrange
	question := &Question{
		Options: []QuestionOption{
			{ID: 1, Text: "A"},
			{ID: 2, Text: "B"},
		},
	}

	// Act & Assert
	assert.True(t, question.HasOption(1))
	assert.True(t, question.HasOption(2))
	assert.False(t, question.HasOption(3), "Чужой вариант не должен принадлежать вопросу")
	assert.False(t, question.HasOption(0))
}

func TestQuestion_KeywordsForLanguage(t *testing.T) {
	// Arrange: эталонные ответы на двух языках
	question := &Question{
		Type: TypeFreeText,
		Keywords: []AnswerKeyword{
			{ID: 1, Text: "apt update", Threshold: 0.9, Language: "en"},
			{ID: 2, Text: "paketquellen aktualisieren", Threshold: 0.8, Language: "de"},
			{ID: 3, Text: "apt-get update", Threshold: 0.9, Language: "en"},
		},
	}

	// Act
	enKeywords := question.KeywordsForLanguage("en")
	deKeywords := question.KeywordsForLanguage("de")

	// Assert: порядок хранения сохраняется
	require.Len(t, enKeywords, 2)
	assert.Equal(t, "apt update", enKeywords[0].Text)
	assert.Equal(t, "apt-get update", enKeywords[1].Text)

	require.Len(t, deKeywords, 1)
	assert.Equal(t, "paketquellen aktualisieren", deKeywords[0].Text)
}

func TestQuestion_KeywordsForLanguage_FallbackToAll(t *testing.T) {
	// Arrange: для запрошенного языка ничего нет
	question := &Question{
		Keywords: []AnswerKeyword{
			{ID: 1, Text: "apt update", Language: "en"},
		},
	}

	// Act
	keywords := question.KeywordsForLanguage("fr")

	// Assert: возвращаются все эталоны вместо пустого списка
	assert.Len(t, keywords, 1)
}

func TestDifficulty_IsValid(t *testing.T) {
	assert.True(t, DifficultyEasy.IsValid())
	assert.True(t, DifficultyMedium.IsValid())
	assert.True(t, DifficultyHard.IsValid())
	assert.True(t, DifficultyHeavy.IsValid())
	assert.False(t, Difficulty("impossible").IsValid())
	assert.False(t, Difficulty("").IsValid())
}

func TestQuestion_TableName(t *testing.T) {
	assert.Equal(t, "questions", Question{}.TableName())
	assert.Equal(t, "question_options", QuestionOption{}.TableName())
	assert.Equal(t, "answer_keywords", AnswerKeyword{}.TableName())
}
