package roommanager

import (
	"math"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// Базовые очки за правильный ответ по уровням сложности
var basePointsByDifficulty = map[entity.Difficulty]int{
	entity.DifficultyEasy:   100,
	entity.DifficultyMedium: 200,
	entity.DifficultyHard:   300,
	entity.DifficultyHeavy:  500,
}

// ScoringEngine вычисляет очки за ответ с учетом бонуса за скорость
type ScoringEngine struct{}

// NewScoringEngine создает новый движок подсчета очков
func NewScoringEngine() *ScoringEngine {
	return &ScoringEngine{}
}

// BasePoints возвращает базовые очки для уровня сложности.
// Неизвестная сложность оценивается как easy.
func (e *ScoringEngine) BasePoints(difficulty entity.Difficulty) int {
	if points, ok := basePointsByDifficulty[difficulty]; ok {
		return points
	}
	return basePointsByDifficulty[entity.DifficultyEasy]
}

// Points вычисляет очки за правильный ответ.
// Мгновенный ответ дает до 50% бонуса, бонус линейно убывает к нулю
// на границе лимита времени. Ответ после лимита дает базовые очки,
// отрицательный бонус невозможен.
func (e *ScoringEngine) Points(difficulty entity.Difficulty, elapsedSec float64, timeLimitSec int) int {
	base := e.BasePoints(difficulty)

	bonus := 0.0
	if timeLimitSec > 0 {
		bonus = math.Max(0, 1-elapsedSec/float64(timeLimitSec)) * 0.5
	}

	return int(math.Floor(float64(base) * (1 + bonus)))
}
