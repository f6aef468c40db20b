package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	"github.com/yourusername/quizroom-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
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

func newTestGameManager(t *testing.T) (*GameManager, *MockRoomRepository, *MockParticipantRepository, *MockQuestionRepository, *MockTopicRepository, *MockCacheRepository) {
	roomRepo := new(MockRoomRepository)
	participantRepo := new(MockParticipantRepository)
	questionRepo := new(MockQuestionRepository)
	topicRepo := new(MockTopicRepository)
	cacheRepo := new(MockCacheRepository)

	manager, err := NewGameManager(roomRepo, participantRepo, questionRepo, topicRepo, cacheRepo)
	require.NoError(t, err)
	return manager, roomRepo, participantRepo, questionRepo, topicRepo, cacheRepo
}

func TestGameManager_CreateRoom(t *testing.T) {
	manager, roomRepo, _, questionRepo, topicRepo, cacheRepo := newTestGameManager(t)

	topicRepo.On("GetByID", uint(5)).Return(&entity.Topic{ID: 5, Name: "Geography"}, nil)
	questionRepo.On("CountPool", uint(5), entity.DifficultyEasy).Return(int64(20), nil)
	cacheRepo.On("SetNX", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	roomRepo.On("CodeExists", mock.Anything).Return(false, nil)
	roomRepo.On("Create", mock.AnythingOfType("*entity.GameRoom")).Return(nil)

	room, err := manager.CreateRoom(1, &dto.CreateRoomRequest{
		TopicID:    5,
		Mode:       "classic",
		Difficulty: "easy",
	})
	require.NoError(t, err)

	assert.Len(t, room.Code, 6)
	assert.Equal(t, "classic", room.Mode)
	assert.Equal(t, "lobby", room.Status)
	assert.Equal(t, uint(1), room.CreatorID)
	assert.Equal(t, "Geography", room.TopicName)
	// Лимит вопросов по умолчанию
	assert.Equal(t, 10, room.MaxQuestions)
}

func TestGameManager_CreateRoom_Validation(t *testing.T) {
	manager, _, _, questionRepo, topicRepo, _ := newTestGameManager(t)

	t.Run("неизвестный режим", func(t *testing.T) {
		_, err := manager.CreateRoom(1, &dto.CreateRoomRequest{TopicID: 5, Mode: "marathon", Difficulty: "easy"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("solo не создается через общий запрос", func(t *testing.T) {
		_, err := manager.CreateRoom(1, &dto.CreateRoomRequest{TopicID: 5, Mode: "solo", Difficulty: "easy"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("неизвестная сложность", func(t *testing.T) {
		_, err := manager.CreateRoom(1, &dto.CreateRoomRequest{TopicID: 5, Mode: "classic", Difficulty: "nightmare"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("несуществующая тема", func(t *testing.T) {
		topicRepo.On("GetByID", uint(99)).Return(nil, apperrors.ErrNotFound)
		_, err := manager.CreateRoom(1, &dto.CreateRoomRequest{TopicID: 99, Mode: "classic", Difficulty: "easy"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("пустой пул вопросов", func(t *testing.T) {
		topicRepo.On("GetByID", uint(5)).Return(&entity.Topic{ID: 5, Name: "Geography"}, nil)
		questionRepo.On("CountPool", uint(5), entity.DifficultyHeavy).Return(int64(0), nil)
		_, err := manager.CreateRoom(1, &dto.CreateRoomRequest{TopicID: 5, Mode: "classic", Difficulty: "heavy"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestGameManager_CreateRoom_CodeCollision(t *testing.T) {
	manager, roomRepo, _, questionRepo, topicRepo, cacheRepo := newTestGameManager(t)

	topicRepo.On("GetByID", uint(5)).Return(&entity.Topic{ID: 5, Name: "Geography"}, nil)
	questionRepo.On("CountPool", uint(5), entity.DifficultyEasy).Return(int64(20), nil)
	cacheRepo.On("SetNX", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	// Первый код занят, со второй попытки свободен
	roomRepo.On("CodeExists", mock.Anything).Return(true, nil).Once()
	roomRepo.On("CodeExists", mock.Anything).Return(false, nil)
	roomRepo.On("Create", mock.AnythingOfType("*entity.GameRoom")).Return(nil)

	room, err := manager.CreateRoom(1, &dto.CreateRoomRequest{TopicID: 5, Mode: "classic", Difficulty: "easy"})
	require.NoError(t, err)
	assert.Len(t, room.Code, 6)
	roomRepo.AssertNumberOfCalls(t, "CodeExists", 2)
}

func TestGameManager_CreateSoloRoom(t *testing.T) {
	manager, roomRepo, _, questionRepo, topicRepo, cacheRepo := newTestGameManager(t)

	topicRepo.On("GetByID", uint(5)).Return(&entity.Topic{ID: 5, Name: "Geography"}, nil)
	questionRepo.On("CountPool", uint(5), entity.DifficultyMedium).Return(int64(20), nil)
	cacheRepo.On("SetNX", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	roomRepo.On("CodeExists", mock.Anything).Return(false, nil)
	roomRepo.On("Create", mock.AnythingOfType("*entity.GameRoom")).Return(nil)

	room, err := manager.CreateSoloRoom(1, &dto.CreateSoloRoomRequest{TopicID: 5, Difficulty: "medium", MaxQuestions: 5})
	require.NoError(t, err)
	assert.Equal(t, "solo", room.Mode)
	assert.Equal(t, 5, room.MaxQuestions)
}

func TestGameManager_GetResults_CacheMiss(t *testing.T) {
	manager, roomRepo, participantRepo, _, _, cacheRepo := newTestGameManager(t)

	endedAt := time.Now()
	room := &entity.GameRoom{
		ID:      1,
		Code:    "ABC123",
		Status:  entity.RoomStatusEnded,
		Active:  false,
		EndedAt: &endedAt,
	}

	cacheRepo.On("GetJSON", "room:results:ABC123", mock.Anything).Return(apperrors.ErrNotFound)
	roomRepo.On("GetByCode", "ABC123").Return(room, nil)
	participantRepo.On("ListByRoom", uint(1)).Return([]entity.Participant{
		{UserID: 1, Username: "alice", JoinOrder: 1, Score: 300},
		{UserID: 2, Username: "bob", JoinOrder: 2, Score: 500},
		{UserID: 3, Username: "carol", JoinOrder: 3, Score: 300},
	}, nil)

	results, err := manager.GetResults("ABC123")
	require.NoError(t, err)

	require.Len(t, results.Results, 3)
	assert.Equal(t, "bob", results.Results[0].Username)
	assert.Equal(t, 1, results.Results[0].Rank)
	// Ничья разрешается порядком входа
	assert.Equal(t, "alice", results.Results[1].Username)
	assert.Equal(t, "carol", results.Results[2].Username)
	assert.Equal(t, uint(2), results.Winner["user_id"])
}

func TestGameManager_GetResults_NotFinished(t *testing.T) {
	manager, roomRepo, _, _, _, cacheRepo := newTestGameManager(t)

	room := &entity.GameRoom{ID: 1, Code: "ABC123", Status: entity.RoomStatusInProgress, Active: true}

	cacheRepo.On("GetJSON", "room:results:ABC123", mock.Anything).Return(apperrors.ErrNotFound)
	roomRepo.On("GetByCode", "ABC123").Return(room, nil)

	_, err := manager.GetResults("ABC123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}
