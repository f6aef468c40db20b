package roommanager

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

func TestScoringEngine_BasePoints(t *testing.T) {
	engine := NewScoringEngine()

	assert.Equal(t, 100, engine.BasePoints(entity.DifficultyEasy))
	assert.Equal(t, 200, engine.BasePoints(entity.DifficultyMedium))
	assert.Equal(t, 300, engine.BasePoints(entity.DifficultyHard))
	assert.Equal(t, 500, engine.BasePoints(entity.DifficultyHeavy))

	// Неизвестная сложность приравнивается к easy
	assert.Equal(t, 100, engine.BasePoints(entity.Difficulty("nightmare")))
}

func TestScoringEngine_Points(t *testing.T) {
	engine := NewScoringEngine()

	tests := []struct {
		name       string
		difficulty entity.Difficulty
		elapsedSec float64
		limitSec   int
		expected   int
	}{
		{"мгновенный ответ дает полный бонус 50%", entity.DifficultyEasy, 0, 30, 150},
		{"ответ на половине лимита дает 25% бонуса", entity.DifficultyMedium, 15, 30, 250},
		{"ответ ровно на границе лимита дает базу", entity.DifficultyEasy, 30, 30, 100},
		{"ответ после лимита не уходит ниже базы", entity.DifficultyEasy, 45, 30, 100},
		{"heavy с мгновенным ответом", entity.DifficultyHeavy, 0, 30, 750},
		{"дробный бонус округляется вниз", entity.DifficultyEasy, 10, 30, 133},
		{"нулевой лимит отключает бонус", entity.DifficultyHard, 0, 0, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := engine.Points(tt.difficulty, tt.elapsedSec, tt.limitSec)
			assert.Equal(t, tt.expected, points)
		})
	}
}
