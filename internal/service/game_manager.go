package service

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"time"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	"github.com/yourusername/quizroom-api/internal/domain/repository"
	"github.com/yourusername/quizroom-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

const (
	// roomCodeCharset не содержит похожих символов вроде O/0 и I/1
	roomCodeCharset = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	roomCodeLength  = 6
	// maxCodeAttempts ограничивает число попыток сгенерировать свободный код
	maxCodeAttempts = 10

	// codeReservationTTL - время жизни резервации кода в Redis между
	// генерацией и записью комнаты в базу
	codeReservationTTL = 30 * time.Second

	resultsCacheKeyPrefix = "room:results:"
	codeReserveKeyPrefix  = "room:code:reserve:"
)

// GameManager управляет жизненным циклом комнат вне игрового цикла:
// создание, поиск по коду, чтение итогов
type GameManager struct {
	roomRepo        repository.RoomRepository
	participantRepo repository.ParticipantRepository
	questionRepo    repository.QuestionRepository
	topicRepo       repository.TopicRepository
	cacheRepo       repository.CacheRepository
}

// NewGameManager создает новый менеджер игр
func NewGameManager(
	roomRepo repository.RoomRepository,
	participantRepo repository.ParticipantRepository,
	questionRepo repository.QuestionRepository,
	topicRepo repository.TopicRepository,
	cacheRepo repository.CacheRepository,
) (*GameManager, error) {
	if roomRepo == nil {
		return nil, fmt.Errorf("RoomRepository is required for GameManager")
	}
	if participantRepo == nil {
		return nil, fmt.Errorf("ParticipantRepository is required for GameManager")
	}
	if questionRepo == nil {
		return nil, fmt.Errorf("QuestionRepository is required for GameManager")
	}
	if topicRepo == nil {
		return nil, fmt.Errorf("TopicRepository is required for GameManager")
	}
	if cacheRepo == nil {
		return nil, fmt.Errorf("CacheRepository is required for GameManager")
	}
	return &GameManager{
		roomRepo:        roomRepo,
		participantRepo: participantRepo,
		questionRepo:    questionRepo,
		topicRepo:       topicRepo,
		cacheRepo:       cacheRepo,
	}, nil
}

// CreateRoom создает многопользовательскую комнату в состоянии lobby
func (s *GameManager) CreateRoom(creatorID uint, req *dto.CreateRoomRequest) (*dto.RoomResponse, error) {
	mode := entity.RoomMode(req.Mode)
	if !mode.IsValid() || mode == entity.ModeSolo {
		return nil, fmt.Errorf("%w: invalid room mode %q", apperrors.ErrValidation, req.Mode)
	}
	return s.createRoom(creatorID, req.TopicID, mode, entity.Difficulty(req.Difficulty), req.MaxQuestions)
}

// CreateSoloRoom создает комнату для одиночной игры. Как и в остальных
// режимах, участником создатель становится при входе через сокет.
func (s *GameManager) CreateSoloRoom(creatorID uint, req *dto.CreateSoloRoomRequest) (*dto.RoomResponse, error) {
	return s.createRoom(creatorID, req.TopicID, entity.ModeSolo, entity.Difficulty(req.Difficulty), req.MaxQuestions)
}

func (s *GameManager) createRoom(creatorID, topicID uint, mode entity.RoomMode, difficulty entity.Difficulty, maxQuestions int) (*dto.RoomResponse, error) {
	if !difficulty.IsValid() {
		return nil, fmt.Errorf("%w: invalid difficulty %q", apperrors.ErrValidation, difficulty)
	}

	topic, err := s.topicRepo.GetByID(topicID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: topic %d not found", apperrors.ErrValidation, topicID)
		}
		return nil, err
	}

	// Проверяем, что пул вопросов для пары (тема, сложность) не пуст
	poolSize, err := s.questionRepo.CountPool(topicID, difficulty)
	if err != nil {
		return nil, err
	}
	if poolSize == 0 {
		return nil, fmt.Errorf("%w: no questions for topic %q with difficulty %q", apperrors.ErrValidation, topic.Name, difficulty)
	}

	if maxQuestions <= 0 {
		maxQuestions = 10
	}

	room, err := s.insertRoomWithCode(creatorID, topicID, mode, difficulty, maxQuestions)
	if err != nil {
		return nil, err
	}

	log.Printf("[GameManager] Создана комната %s (режим: %s, тема: %s, сложность: %s)",
		room.Code, room.Mode, topic.Name, room.Difficulty)

	resp := s.toRoomResponse(room, 0)
	resp.TopicName = topic.Name
	return resp, nil
}

// insertRoomWithCode подбирает свободный шестизначный код и создает комнату.
// Код резервируется в Redis, чтобы параллельные запросы не взяли один и тот
// же код между проверкой и вставкой; уникальный индекс в базе страхует
// результат при недоступном Redis.
func (s *GameManager) insertRoomWithCode(creatorID, topicID uint, mode entity.RoomMode, difficulty entity.Difficulty, maxQuestions int) (*entity.GameRoom, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := generateRoomCode()

		reserved, err := s.cacheRepo.SetNX(codeReserveKeyPrefix+code, creatorID, codeReservationTTL)
		if err != nil {
			log.Printf("[GameManager] Резервация кода %s в Redis не удалась: %v", code, err)
			// Продолжаем, полагаясь на уникальный индекс
		} else if !reserved {
			continue
		}

		exists, err := s.roomRepo.CodeExists(code)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		room := &entity.GameRoom{
			Code:         code,
			CreatorID:    creatorID,
			TopicID:      topicID,
			Mode:         mode,
			Difficulty:   difficulty,
			Status:       entity.RoomStatusLobby,
			Active:       true,
			MaxQuestions: maxQuestions,
		}
		if err := s.roomRepo.Create(room); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				// Код заняли в промежутке, пробуем следующий
				continue
			}
			return nil, err
		}
		return room, nil
	}
	return nil, fmt.Errorf("%w: could not allocate a unique room code", apperrors.ErrConflict)
}

// GetRoomByCode возвращает комнату с количеством участников
func (s *GameManager) GetRoomByCode(code string) (*dto.RoomResponse, error) {
	room, err := s.roomRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}

	count, err := s.participantRepo.CountByRoom(room.ID)
	if err != nil {
		log.Printf("[GameManager] Ошибка подсчета участников комнаты %s: %v", code, err)
		count = 0
	}

	resp := s.toRoomResponse(room, int(count))
	if topic, err := s.topicRepo.GetByID(room.TopicID); err == nil {
		resp.TopicName = topic.Name
	}
	return resp, nil
}

// GetResults возвращает итог завершенной игры. Сначала пробуем кеш,
// при промахе восстанавливаем итог из базы.
func (s *GameManager) GetResults(code string) (*dto.GameResultsResponse, error) {
	var cached dto.GameResultsResponse
	if err := s.cacheRepo.GetJSON(resultsCacheKeyPrefix+code, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[GameManager] Ошибка чтения кеша результатов комнаты %s: %v", code, err)
	}

	room, err := s.roomRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if !room.IsEnded() {
		return nil, fmt.Errorf("%w: game in room %s has not finished", apperrors.ErrInvalidState, code)
	}

	participants, err := s.participantRepo.ListByRoom(room.ID)
	if err != nil {
		return nil, err
	}

	// Ранжируем по убыванию очков, при равенстве раньше тот, кто раньше вошел
	sort.SliceStable(participants, func(i, j int) bool {
		if participants[i].Score != participants[j].Score {
			return participants[i].Score > participants[j].Score
		}
		return participants[i].JoinOrder < participants[j].JoinOrder
	})

	results := make([]*dto.PlayerResultDTO, len(participants))
	for i, p := range participants {
		results[i] = &dto.PlayerResultDTO{
			Rank:         i + 1,
			UserID:       p.UserID,
			Username:     p.Username,
			Score:        p.Score,
			Survived:     p.Survived,
			EliminatedAt: p.EliminatedAt,
		}
	}

	resp := &dto.GameResultsResponse{
		RoomCode: room.Code,
		Results:  results,
	}
	if len(results) > 0 {
		resp.Winner = map[string]interface{}{
			"user_id":  results[0].UserID,
			"username": results[0].Username,
			"score":    results[0].Score,
		}
	}
	return resp, nil
}

// ListActiveRooms возвращает активные комнаты с пагинацией
func (s *GameManager) ListActiveRooms(page, pageSize int) ([]*dto.RoomResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}
	rooms, err := s.roomRepo.ListActive(pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.RoomResponse, len(rooms))
	for i := range rooms {
		count, err := s.participantRepo.CountByRoom(rooms[i].ID)
		if err != nil {
			count = 0
		}
		out[i] = s.toRoomResponse(&rooms[i], int(count))
	}
	return out, nil
}

// Topics возвращает каталог тем
func (s *GameManager) Topics() ([]*dto.TopicDTO, error) {
	topics, err := s.topicRepo.List()
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TopicDTO, len(topics))
	for i, t := range topics {
		out[i] = &dto.TopicDTO{
			ID:          t.ID,
			Name:        t.Name,
			Description: t.Description,
		}
	}
	return out, nil
}

func (s *GameManager) toRoomResponse(room *entity.GameRoom, playerCount int) *dto.RoomResponse {
	return &dto.RoomResponse{
		ID:           room.ID,
		Code:         room.Code,
		CreatorID:    room.CreatorID,
		TopicID:      room.TopicID,
		Mode:         string(room.Mode),
		Difficulty:   string(room.Difficulty),
		Status:       string(room.Status),
		MaxQuestions: room.MaxQuestions,
		PlayerCount:  playerCount,
		StartedAt:    room.StartedAt,
		EndedAt:      room.EndedAt,
		CreatedAt:    room.CreatedAt,
	}
}

func generateRoomCode() string {
	b := make([]byte, roomCodeLength)
	for i := range b {
		b[i] = roomCodeCharset[rand.Intn(len(roomCodeCharset))]
	}
	return string(b)
}
