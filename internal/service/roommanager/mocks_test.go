package roommanager

import (
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	ws "github.com/yourusername/quizroom-api/internal/websocket"
)

// Мок-объекты для интерфейсов репозиториев

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(room *entity.GameRoom) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockRoomRepository) GetByID(id uint) (*entity.GameRoom, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GameRoom), args.Error(1)
}

func (m *MockRoomRepository) GetByCode(code string) (*entity.GameRoom, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GameRoom), args.Error(1)
}

func (m *MockRoomRepository) Update(room *entity.GameRoom) error {
	args := m.Called(room)
	return args.Error(0)
}

func (m *MockRoomRepository) CodeExists(code string) (bool, error) {
	args := m.Called(code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoomRepository) ListActive(limit, offset int) ([]entity.GameRoom, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]entity.GameRoom), args.Error(1)
}

type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) Create(participant *entity.Participant) error {
	args := m.Called(participant)
	return args.Error(0)
}

func (m *MockParticipantRepository) GetByRoomAndUser(roomID, userID uint) (*entity.Participant, error) {
	args := m.Called(roomID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Participant), args.Error(1)
}

func (m *MockParticipantRepository) ListByRoom(roomID uint) ([]entity.Participant, error) {
	args := m.Called(roomID)
	return args.Get(0).([]entity.Participant), args.Error(1)
}

func (m *MockParticipantRepository) Update(participant *entity.Participant) error {
	args := m.Called(participant)
	return args.Error(0)
}

func (m *MockParticipantRepository) CountByRoom(roomID uint) (int64, error) {
	args := m.Called(roomID)
	return args.Get(0).(int64), args.Error(1)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) GetByID(id uint) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetPool(topicID uint, difficulty entity.Difficulty, excludeIDs []uint) ([]entity.Question, error) {
	args := m.Called(topicID, difficulty, excludeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) CountPool(topicID uint, difficulty entity.Difficulty) (int64, error) {
	args := m.Called(topicID, difficulty)
	return args.Get(0).(int64), args.Error(1)
}

type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) GetByID(id uint) (*entity.Topic, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Topic), args.Error(1)
}

func (m *MockTopicRepository) List() ([]entity.Topic, error) {
	args := m.Called()
	return args.Get(0).([]entity.Topic), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateStats(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementGamesPlayed(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

type MockAchievementRepository struct {
	mock.Mock
}

func (m *MockAchievementRepository) GetBySlug(slug string) (*entity.Achievement, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Achievement), args.Error(1)
}

func (m *MockAchievementRepository) List() ([]entity.Achievement, error) {
	args := m.Called()
	return args.Get(0).([]entity.Achievement), args.Error(1)
}

func (m *MockAchievementRepository) Unlock(userID, achievementID uint) (bool, error) {
	args := m.Called(userID, achievementID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAchievementRepository) ListForUser(userID uint) ([]entity.Achievement, error) {
	args := m.Called(userID)
	return args.Get(0).([]entity.Achievement), args.Error(1)
}

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Set(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) Get(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheRepository) Delete(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockCacheRepository) Increment(key string) (int64, error) {
	args := m.Called(key)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepository) SetJSON(key string, value interface{}, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(key string, dest interface{}) error {
	args := m.Called(key, dest)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(key string) (bool, error) {
	args := m.Called(key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) ExpireAt(key string, expiration time.Time) error {
	args := m.Called(key, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) SetNX(key string, value interface{}, expiration time.Duration) (bool, error) {
	args := m.Called(key, value, expiration)
	return args.Bool(0), args.Error(1)
}

// recordedEvent - одно событие, отправленное через фейковый хаб
type recordedEvent struct {
	RoomCode  string
	UserID    uint
	ExceptID  uint
	Broadcast bool
	Payload   interface{}
}

// fakeEventSender записывает все исходящие события для проверок в тестах
type fakeEventSender struct {
	mu     sync.Mutex
	events []recordedEvent
}

func newFakeEventSender() *fakeEventSender {
	return &fakeEventSender{}
}

func (f *fakeEventSender) BroadcastToRoom(roomCode string, v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{RoomCode: roomCode, Broadcast: true, Payload: v})
	return nil
}

func (f *fakeEventSender) BroadcastToRoomExcept(roomCode string, excludeUserID uint, v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{RoomCode: roomCode, Broadcast: true, ExceptID: excludeUserID, Payload: v})
	return nil
}

func (f *fakeEventSender) SendJSONToUser(userID uint, v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{UserID: userID, Payload: v})
	return nil
}

func (f *fakeEventSender) JoinRoom(roomCode string, userID uint)  {}
func (f *fakeEventSender) LeaveRoom(roomCode string, userID uint) {}
func (f *fakeEventSender) RoomMemberCount(roomCode string) int    { return 0 }

// eventTypes возвращает типы всех записанных событий в порядке эмиссии
func (f *fakeEventSender) eventTypes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	types := make([]string, 0, len(f.events))
	for _, e := range f.events {
		if ev, ok := e.Payload.(ws.Event); ok {
			types = append(types, ev.Type)
		}
	}
	return types
}

// findEvent возвращает первое событие указанного типа
func (f *fakeEventSender) findEvent(eventType string) (recordedEvent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if ev, ok := e.Payload.(ws.Event); ok && ev.Type == eventType {
			return e, true
		}
	}
	return recordedEvent{}, false
}
