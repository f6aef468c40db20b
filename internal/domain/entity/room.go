package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// RoomMode определяет режим игры
type RoomMode string

const (
	ModeClassic          RoomMode = "classic"
	ModeSurvivalNormal   RoomMode = "survival_normal"
	ModeSurvivalHardcore RoomMode = "survival_hardcore"
	ModeSolo             RoomMode = "solo"
)

// IsSurvival возвращает true для режимов с выбыванием после неверного ответа
func (m RoomMode) IsSurvival() bool {
	return m == ModeSurvivalNormal || m == ModeSurvivalHardcore
}

// IsValid проверяет, что режим относится к известному набору
func (m RoomMode) IsValid() bool {
	switch m {
	case ModeClassic, ModeSurvivalNormal, ModeSurvivalHardcore, ModeSolo:
		return true
	}
	return false
}

// RoomStatus определяет фазу жизненного цикла комнаты
type RoomStatus string

const (
	// RoomStatusLobby - комната создана, игра не началась
	RoomStatusLobby RoomStatus = "lobby"
	// RoomStatusInProgress - идет раздача вопросов
	RoomStatusInProgress RoomStatus = "in_progress"
	// RoomStatusEnded - терминальное состояние, мутации запрещены
	RoomStatusEnded RoomStatus = "ended"
)

// UintArray - пользовательский тип для хранения списка идентификаторов в JSONB
type UintArray []uint

// Scan реализует интерфейс sql.Scanner для UintArray
func (a *UintArray) Scan(value interface{}) error {
	if value == nil {
		*a = UintArray{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}

	if len(bytes) == 0 {
		*a = UintArray{}
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// Value реализует интерфейс driver.Valuer для UintArray
func (a UintArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Contains проверяет присутствие идентификатора в списке
func (a UintArray) Contains(id uint) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}

// GameRoom представляет одну игровую сессию, адресуемую коротким кодом
type GameRoom struct {
	ID uint `gorm:"primaryKey" json:"id"`
	// Код уникален среди активных комнат (частичный индекс в миграции)
	Code       string     `gorm:"size:6;not null;index" json:"code"`
	CreatorID  uint       `gorm:"not null;index" json:"creator_id"`
	TopicID    uint       `gorm:"not null;index" json:"topic_id"`
	Mode       RoomMode   `gorm:"size:20;not null" json:"mode"`
	Difficulty Difficulty `gorm:"size:10;not null" json:"difficulty"`
	Status     RoomStatus `gorm:"size:15;not null;default:'lobby'" json:"status"`
	Active     bool       `gorm:"not null;default:true;index" json:"active"`

	// QuestionCursor - индекс текущего вопроса, строго неубывающий
	QuestionCursor    int   `gorm:"not null;default:0" json:"question_cursor"`
	CurrentQuestionID *uint `gorm:"index" json:"current_question_id,omitempty"`
	// MaxQuestions - лимит вопросов на сессию; 0 означает "весь доступный пул"
	MaxQuestions int `gorm:"not null;default:10" json:"max_questions"`
	// AskedQuestionIDs - вопросы, уже заданные в этой комнате, для исключения повторов
	AskedQuestionIDs UintArray `gorm:"type:jsonb;not null;default:'[]'" json:"-"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (GameRoom) TableName() string {
	return "game_rooms"
}

// IsLobby возвращает true, если игра еще не началась
func (r *GameRoom) IsLobby() bool {
	return r.Status == RoomStatusLobby
}

// IsInProgress возвращает true, если идет раздача вопросов
func (r *GameRoom) IsInProgress() bool {
	return r.Status == RoomStatusInProgress
}

// IsEnded возвращает true для терминального состояния
func (r *GameRoom) IsEnded() bool {
	return r.Status == RoomStatusEnded
}
