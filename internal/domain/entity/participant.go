package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AnswerRecord фиксирует один принятый ответ участника.
// Инвариант: не более одной записи на пару (участник, вопрос).
type AnswerRecord struct {
	QuestionID uint    `json:"question_id"`
	Value      string  `json:"value"`
	IsCorrect  bool    `json:"is_correct"`
	Points     int     `json:"points"`
	ElapsedSec float64 `json:"elapsed_sec"`
}

// AnswerRecords - пользовательский тип для хранения журнала ответов в JSONB
type AnswerRecords []AnswerRecord

// Scan реализует интерфейс sql.Scanner для AnswerRecords
func (r *AnswerRecords) Scan(value interface{}) error {
	if value == nil {
		*r = AnswerRecords{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*r = AnswerRecords{}
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// Value реализует интерфейс driver.Valuer для AnswerRecords
func (r AnswerRecords) Value() (driver.Value, error) {
	if len(r) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(r)
}

// Participant представляет членство пользователя в одной комнате
// и его накопленное состояние в рамках этой сессии
type Participant struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	RoomID uint `gorm:"not null;uniqueIndex:idx_participants_room_user" json:"room_id"`
	UserID uint `gorm:"not null;uniqueIndex:idx_participants_room_user" json:"user_id"`

	Username string `gorm:"size:50;not null" json:"username"`
	// JoinOrder - порядковый номер входа, используется для разрешения ничьих в рейтинге
	JoinOrder int `gorm:"not null" json:"join_order"`

	Score            int `gorm:"not null;default:0" json:"score"`
	MultiplayerScore int `gorm:"not null;default:0" json:"multiplayer_score"`

	// Survived сбрасывается в false при первом неверном ответе в survival-режимах
	Survived bool `gorm:"not null;default:true" json:"survived"`
	// EliminatedAt - индекс вопроса, на котором участник выбыл; 0 означает "не выбыл"
	EliminatedAt int `gorm:"not null;default:0" json:"eliminated_at"`

	Answers AnswerRecords `gorm:"type:jsonb;not null;default:'[]'" json:"answers"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Participant) TableName() string {
	return "participants"
}

// HasAnswered проверяет, есть ли у участника ответ на указанный вопрос
func (p *Participant) HasAnswered(questionID uint) bool {
	for _, rec := range p.Answers {
		if rec.QuestionID == questionID {
			return true
		}
	}
	return false
}

// IsEligible возвращает true, если участник еще учитывается при раздаче вопросов.
// В survival-режимах выбывшие участники исключаются из проверки "все ответили".
func (p *Participant) IsEligible(mode RoomMode) bool {
	if !mode.IsSurvival() {
		return true
	}
	return p.Survived
}
