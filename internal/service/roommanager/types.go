package roommanager

import (
	"time"

	"github.com/yourusername/quizroom-api/internal/domain/repository"
)

// DefaultMaxQuestions - лимит вопросов на сессию, если комната не задала свой
const DefaultMaxQuestions = 10

// Config содержит настройки игрового координатора
type Config struct {
	// PostStartDelay - пауза между game_started и раздачей первого вопроса
	PostStartDelay time.Duration

	// AllAnsweredGrace - пауза перед следующим вопросом после того,
	// как все участники ответили
	AllAnsweredGrace time.Duration

	// MaxQuestions - лимит вопросов на сессию по умолчанию
	MaxQuestions int

	// ResultsTTL - время хранения кешированных результатов завершенной игры
	ResultsTTL time.Duration
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		PostStartDelay:   2 * time.Second,
		AllAnsweredGrace: 3 * time.Second,
		MaxQuestions:     DefaultMaxQuestions,
		ResultsTTL:       24 * time.Hour,
	}
}

// EventSender определяет методы хаба, необходимые координатору.
// Hub сериализует постановку сообщений в буферы клиентов, поэтому порядок
// событий одной комнаты совпадает с порядком их эмиссии координатором.
type EventSender interface {
	BroadcastToRoom(roomCode string, v interface{}) error
	BroadcastToRoomExcept(roomCode string, excludeUserID uint, v interface{}) error
	SendJSONToUser(userID uint, v interface{}) error
	JoinRoom(roomCode string, userID uint)
	LeaveRoom(roomCode string, userID uint)
	RoomMemberCount(roomCode string) int
}

// Dependencies содержит зависимости игрового координатора
type Dependencies struct {
	RoomRepo        repository.RoomRepository
	ParticipantRepo repository.ParticipantRepository
	QuestionRepo    repository.QuestionRepository
	TopicRepo       repository.TopicRepository
	UserRepo        repository.UserRepository
	AchievementRepo repository.AchievementRepository
	CacheRepo       repository.CacheRepository
	Hub             EventSender
	Config          *Config
}

// AnswerSubmission представляет разобранный ответ участника
type AnswerSubmission struct {
	QuestionID uint
	// OptionIDs заполняется для вопросов с вариантами (один или несколько)
	OptionIDs []uint
	// Text заполняется для free_text вопросов
	Text string
}
