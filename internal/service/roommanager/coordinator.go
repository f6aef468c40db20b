package roommanager

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
	ws "github.com/yourusername/quizroom-api/internal/websocket"
)

// resultsCacheKeyPrefix - префикс ключа кеша финальных результатов комнаты
const resultsCacheKeyPrefix = "room:results:"

// RoomCoordinator оркестрирует жизненный цикл комнат: вход и выход,
// запуск, раздачу вопросов, прием ответов, завершение и выдачу достижений.
// Только координатор мутирует RoomState и эмитирует события.
type RoomCoordinator struct {
	config    *Config
	deps      *Dependencies
	validator *AnswerValidator
	scoring   *ScoringEngine
	bank      *QuestionBank

	mu    sync.RWMutex
	rooms map[string]*RoomState
}

// NewRoomCoordinator создает новый координатор комнат
func NewRoomCoordinator(deps *Dependencies) *RoomCoordinator {
	config := deps.Config
	if config == nil {
		config = DefaultConfig()
	}
	return &RoomCoordinator{
		config:    config,
		deps:      deps,
		validator: NewAnswerValidator(),
		scoring:   NewScoringEngine(),
		bank:      NewQuestionBank(deps.QuestionRepo),
		rooms:     make(map[string]*RoomState),
	}
}

// getState возвращает состояние комнаты, поднимая его из хранилища
// при первом обращении. Завершенные комнаты в реестре не удерживаются.
func (c *RoomCoordinator) getState(roomCode string) (*RoomState, error) {
	c.mu.RLock()
	state, ok := c.rooms[roomCode]
	c.mu.RUnlock()
	if ok {
		return state, nil
	}

	room, err := c.deps.RoomRepo.GetByCode(roomCode)
	if err != nil {
		return nil, err
	}
	participants, err := c.deps.ParticipantRepo.ListByRoom(room.ID)
	if err != nil {
		return nil, err
	}

	state = NewRoomState(room, participants)
	if room.IsEnded() || !room.Active {
		// Транзитное состояние только для чтения, в реестр не попадает
		return state, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.rooms[roomCode]; ok {
		return existing, nil
	}
	c.rooms[roomCode] = state
	return state, nil
}

// Join добавляет пользователя в комнату. Повторный вход идемпотентен:
// существующая запись участника возвращается без создания дубликата.
func (c *RoomCoordinator) Join(roomCode string, userID uint) error {
	state, err := c.getState(roomCode)
	if err != nil {
		return err
	}

	state.Mu.Lock()
	defer state.Mu.Unlock()

	if state.Room.IsEnded() || !state.Room.Active {
		return fmt.Errorf("%w: room %s is not active", apperrors.ErrInvalidState, roomCode)
	}

	participant, exists := state.Participants[userID]
	if !exists {
		user, err := c.deps.UserRepo.GetByID(userID)
		if err != nil {
			return err
		}

		participant = &entity.Participant{
			RoomID:    state.Room.ID,
			UserID:    userID,
			Username:  user.Username,
			JoinOrder: state.NextJoinOrder(),
			Survived:  true,
			Answers:   entity.AnswerRecords{},
		}
		if err := c.deps.ParticipantRepo.Create(participant); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				// Гонка двух соединений одного пользователя, берем существующую запись
				existing, lookupErr := c.deps.ParticipantRepo.GetByRoomAndUser(state.Room.ID, userID)
				if lookupErr != nil {
					return lookupErr
				}
				participant = existing
			} else {
				return err
			}
		}
		state.Participants[userID] = participant
	}

	c.deps.Hub.JoinRoom(roomCode, userID)

	c.deps.Hub.BroadcastToRoom(roomCode, ws.Event{
		Type: ws.PLAYER_JOINED,
		Data: map[string]interface{}{
			"user_id":      userID,
			"username":     participant.Username,
			"player_count": len(state.Participants),
		},
	})

	// Полный снимок лобби уходит только вошедшему соединению
	c.deps.Hub.SendJSONToUser(userID, ws.Event{
		Type: ws.UPDATE_LOBBY,
		Data: c.lobbySnapshotLocked(state),
	})

	log.Printf("[RoomCoordinator] Пользователь %d вошел в комнату %s (участников: %d)",
		userID, roomCode, len(state.Participants))
	return nil
}

// Leave убирает соединение пользователя из группы рассылки комнаты.
// Запись участника сохраняется вместе с историей счета.
func (c *RoomCoordinator) Leave(roomCode string, userID uint) error {
	c.deps.Hub.LeaveRoom(roomCode, userID)

	username := ""
	c.mu.RLock()
	state, ok := c.rooms[roomCode]
	c.mu.RUnlock()
	if ok {
		state.Mu.Lock()
		if p, exists := state.Participants[userID]; exists {
			username = p.Username
		}
		c.deps.Hub.BroadcastToRoom(roomCode, ws.Event{
			Type: ws.PLAYER_LEFT,
			Data: map[string]interface{}{
				"user_id":  userID,
				"username": username,
			},
		})
		state.Mu.Unlock()
	}

	log.Printf("[RoomCoordinator] Пользователь %d покинул комнату %s", userID, roomCode)
	return nil
}

// Start запускает игру. Разрешен только создателю комнаты и только из лобби.
func (c *RoomCoordinator) Start(roomCode string, requesterID uint) error {
	state, err := c.getState(roomCode)
	if err != nil {
		return err
	}

	state.Mu.Lock()
	defer state.Mu.Unlock()

	room := state.Room
	if requesterID != room.CreatorID {
		return fmt.Errorf("%w: only the room creator can start the game", apperrors.ErrUnauthorized)
	}
	if !room.IsLobby() || !room.Active {
		return fmt.Errorf("%w: room %s is not in lobby", apperrors.ErrInvalidState, roomCode)
	}

	now := time.Now()
	prevStatus, prevStarted := room.Status, room.StartedAt
	room.Status = entity.RoomStatusInProgress
	room.StartedAt = &now
	room.QuestionCursor = 0

	if err := c.deps.RoomRepo.Update(room); err != nil {
		room.Status, room.StartedAt = prevStatus, prevStarted
		return fmt.Errorf("persist room start: %w", err)
	}

	c.deps.Hub.BroadcastToRoom(roomCode, ws.Event{
		Type: ws.GAME_STARTED,
		Data: map[string]interface{}{
			"room_code": roomCode,
			"message":   "The game has started",
		},
	})
	log.Printf("[RoomCoordinator] Комната %s запущена пользователем %d", roomCode, requesterID)

	// Первый вопрос уходит после короткой паузы, блокировка на время
	// ожидания не удерживается
	state.AdvancePending = true
	go c.delayedAdvance(state, roomCode, c.config.PostStartDelay)
	return nil
}

// delayedAdvance ждет паузу и продвигает комнату к следующему вопросу.
// Завершение комнаты отменяет ожидание через контекст состояния.
// Флаг AdvancePending перепроверяется под блокировкой комнаты: если игру
// уже продвинули вручную, запланированный переход не выполняется.
func (c *RoomCoordinator) delayedAdvance(state *RoomState, roomCode string, delay time.Duration) {
	select {
	case <-time.After(delay):
		state.Mu.Lock()
		defer state.Mu.Unlock()
		if !state.AdvancePending {
			return
		}
		if err := c.advanceQuestionLocked(state); err != nil {
			log.Printf("[RoomCoordinator] Продвижение комнаты %s не удалось: %v", roomCode, err)
		}
	case <-state.Ctx.Done():
	}
}

// AdvanceQuestion выбирает и раздает следующий вопрос комнаты.
// При исчерпании пула или достижении лимита игра завершается.
func (c *RoomCoordinator) AdvanceQuestion(roomCode string) error {
	state, err := c.getState(roomCode)
	if err != nil {
		return err
	}

	state.Mu.Lock()
	defer state.Mu.Unlock()
	return c.advanceQuestionLocked(state)
}

func (c *RoomCoordinator) advanceQuestionLocked(state *RoomState) error {
	room := state.Room
	if !room.IsInProgress() {
		return fmt.Errorf("%w: room %s is not in progress", apperrors.ErrInvalidState, room.Code)
	}
	state.AdvancePending = false

	if room.MaxQuestions > 0 && room.QuestionCursor >= room.MaxQuestions {
		return c.endGameLocked(state)
	}

	question, err := c.bank.PickQuestion(room)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Пул исчерпан
			return c.endGameLocked(state)
		}
		return err
	}

	prevCursor := room.QuestionCursor
	prevQuestionID := room.CurrentQuestionID
	prevAsked := room.AskedQuestionIDs

	room.QuestionCursor++
	room.CurrentQuestionID = &question.ID
	room.AskedQuestionIDs = append(append(entity.UintArray{}, prevAsked...), question.ID)

	if err := c.deps.RoomRepo.Update(room); err != nil {
		room.QuestionCursor = prevCursor
		room.CurrentQuestionID = prevQuestionID
		room.AskedQuestionIDs = prevAsked
		return fmt.Errorf("persist question advance: %w", err)
	}

	state.CurrentQuestion = question
	state.QuestionSentAt = time.Now()

	payload := map[string]interface{}{
		"question_id":     question.ID,
		"text":            question.Text,
		"type":            question.Type,
		"time_limit":      question.TimeLimitSec,
		"question_number": room.QuestionCursor,
		"points":          c.scoring.BasePoints(question.Difficulty),
	}
	if question.Type == entity.TypeMultipleChoice {
		// Варианты уходят в новом случайном порядке, флаги корректности не уходят никогда
		options := make([]map[string]interface{}, 0, len(question.Options))
		for _, opt := range ShuffledOptions(question) {
			options = append(options, map[string]interface{}{
				"id":   opt.ID,
				"text": opt.Text,
			})
		}
		payload["options"] = options
	}

	c.deps.Hub.BroadcastToRoom(room.Code, ws.Event{Type: ws.NEW_QUESTION, Data: payload})
	log.Printf("[RoomCoordinator] Комната %s: вопрос #%d (id=%d) разослан",
		room.Code, room.QuestionCursor, question.ID)
	return nil
}

// SubmitAnswer принимает ответ участника на текущий вопрос.
// Повторный ответ на тот же вопрос отклоняется без изменения счета.
func (c *RoomCoordinator) SubmitAnswer(roomCode string, userID uint, sub *AnswerSubmission) error {
	state, err := c.getState(roomCode)
	if err != nil {
		return err
	}

	state.Mu.Lock()
	defer state.Mu.Unlock()

	room := state.Room
	if !room.IsInProgress() {
		return fmt.Errorf("%w: room %s is not active", apperrors.ErrInvalidState, roomCode)
	}

	participant, ok := state.Participants[userID]
	if !ok {
		return fmt.Errorf("%w: user %d is not a participant of room %s", apperrors.ErrInvalidRequest, userID, roomCode)
	}
	// Выбывшие в survival-режимах больше не отвечают и не набирают очки
	if !participant.IsEligible(room.Mode) {
		return fmt.Errorf("%w: user %d has been eliminated from room %s", apperrors.ErrInvalidState, userID, roomCode)
	}

	question := state.CurrentQuestion
	if question == nil || sub.QuestionID != question.ID {
		return fmt.Errorf("%w: question %d is not the current question", apperrors.ErrInvalidRequest, sub.QuestionID)
	}

	if participant.HasAnswered(question.ID) {
		return fmt.Errorf("%w: question %d", apperrors.ErrDuplicateAnswer, question.ID)
	}

	user, err := c.deps.UserRepo.GetByID(userID)
	if err != nil {
		return err
	}

	result, err := c.validator.Validate(question, sub, user.Language)
	if err != nil {
		return err
	}

	// Время отсчитывается от момента раздачи вопроса сервером,
	// клиентским часам не доверяем
	elapsedSec := time.Since(state.QuestionSentAt).Seconds()

	points := 0
	if result.IsCorrect {
		points = c.scoring.Points(question.Difficulty, elapsedSec, question.TimeLimitSec)
	}

	// Изменения применяются к копии и попадают в память только после
	// успешной записи, частичное обновление счета невидимо
	updated := *participant
	updated.Answers = append(append(entity.AnswerRecords{}, participant.Answers...), entity.AnswerRecord{
		QuestionID: question.ID,
		Value:      submissionValue(sub),
		IsCorrect:  result.IsCorrect,
		Points:     points,
		ElapsedSec: elapsedSec,
	})
	updated.Score += points
	if room.Mode != entity.ModeSolo {
		updated.MultiplayerScore += points
	}
	if !result.IsCorrect && room.Mode.IsSurvival() {
		updated.Survived = false
		// Фиксируется вопрос первого выбывания, повторная запись запрещена
		if updated.EliminatedAt == 0 {
			updated.EliminatedAt = room.QuestionCursor
		}
	}

	if err := c.deps.ParticipantRepo.Update(&updated); err != nil {
		return fmt.Errorf("persist answer: %w", err)
	}
	*participant = updated

	user.ApplyAnswer(result.IsCorrect, points)
	if err := c.deps.UserRepo.UpdateStats(user); err != nil {
		log.Printf("[RoomCoordinator] Обновление статистики пользователя %d не удалось: %v", userID, err)
	}

	// Приватный результат уходит только отвечавшему
	c.deps.Hub.SendJSONToUser(userID, ws.Event{
		Type: ws.ANSWER_RESULT,
		Data: map[string]interface{}{
			"is_correct":     result.IsCorrect,
			"points_earned":  points,
			"correct_answer": result.CorrectAnswer,
			"total_score":    participant.Score,
		},
	})

	c.deps.Hub.BroadcastToRoom(roomCode, ws.Event{
		Type: ws.SCORE_UPDATE,
		Data: map[string]interface{}{
			"user_id":       userID,
			"username":      participant.Username,
			"score":         participant.Score,
			"points_change": points,
		},
	})

	// В survival-режиме игра заканчивается, когда выбыли все
	if room.Mode.IsSurvival() && state.EligibleCount() == 0 {
		return c.endGameLocked(state)
	}

	// Все оставшиеся в игре ответили: следующий вопрос после паузы
	if state.AllEligibleAnswered(question.ID) && !state.AdvancePending {
		state.AdvancePending = true
		go c.delayedAdvance(state, roomCode, c.config.AllAnsweredGrace)
	}
	return nil
}

// NextQuestion - ручное продвижение игры, доступно только создателю комнаты
func (c *RoomCoordinator) NextQuestion(roomCode string, requesterID uint) error {
	state, err := c.getState(roomCode)
	if err != nil {
		return err
	}

	state.Mu.Lock()
	defer state.Mu.Unlock()

	if requesterID != state.Room.CreatorID {
		return fmt.Errorf("%w: only the room creator can advance the game", apperrors.ErrUnauthorized)
	}
	return c.advanceQuestionLocked(state)
}

// Kick исключает участника из игры. Запись участника сохраняется,
// уведомление уходит всем соединениям комнаты, кроме инициатора.
func (c *RoomCoordinator) Kick(roomCode string, requesterID, targetUserID uint) error {
	state, err := c.getState(roomCode)
	if err != nil {
		return err
	}

	state.Mu.Lock()
	defer state.Mu.Unlock()

	room := state.Room
	if requesterID != room.CreatorID {
		return fmt.Errorf("%w: only the room creator can kick players", apperrors.ErrUnauthorized)
	}

	target, ok := state.Participants[targetUserID]
	if !ok {
		return fmt.Errorf("%w: user %d is not a participant of room %s", apperrors.ErrNotFound, targetUserID, roomCode)
	}

	updated := *target
	updated.Survived = false
	if updated.EliminatedAt == 0 {
		updated.EliminatedAt = room.QuestionCursor
	}
	if err := c.deps.ParticipantRepo.Update(&updated); err != nil {
		return fmt.Errorf("persist kick: %w", err)
	}
	*target = updated

	c.deps.Hub.BroadcastToRoomExcept(roomCode, requesterID, ws.Event{
		Type: ws.KICKED_OUT,
		Data: map[string]interface{}{
			"user_id":  targetUserID,
			"username": target.Username,
			"message":  fmt.Sprintf("%s was removed from the game", target.Username),
		},
	})

	log.Printf("[RoomCoordinator] Пользователь %d исключен из комнаты %s пользователем %d",
		targetUserID, roomCode, requesterID)
	return nil
}

// EndGame принудительно завершает игру
func (c *RoomCoordinator) EndGame(roomCode string) error {
	state, err := c.getState(roomCode)
	if err != nil {
		return err
	}

	state.Mu.Lock()
	defer state.Mu.Unlock()
	return c.endGameLocked(state)
}

// endGameLocked завершает игру: фиксирует терминальное состояние,
// рассылает финальный рейтинг и оценивает достижения.
// Повторный вызов безопасен.
func (c *RoomCoordinator) endGameLocked(state *RoomState) error {
	room := state.Room
	if room.IsEnded() {
		return nil
	}

	now := time.Now()
	prevStatus, prevActive, prevEnded := room.Status, room.Active, room.EndedAt
	room.Status = entity.RoomStatusEnded
	room.Active = false
	room.EndedAt = &now

	if err := c.deps.RoomRepo.Update(room); err != nil {
		room.Status, room.Active, room.EndedAt = prevStatus, prevActive, prevEnded
		return fmt.Errorf("persist game end: %w", err)
	}

	// Отложенные переходы обрываются
	state.Cancel()
	state.AdvancePending = false
	state.CurrentQuestion = nil

	for _, p := range state.Participants {
		if err := c.deps.UserRepo.IncrementGamesPlayed(p.UserID); err != nil {
			log.Printf("[RoomCoordinator] Инкремент games_played для %d не удался: %v", p.UserID, err)
		}
	}

	ranking := state.Ranking()
	results := make([]map[string]interface{}, 0, len(ranking))
	for i, p := range ranking {
		results = append(results, map[string]interface{}{
			"rank":          i + 1,
			"user_id":       p.UserID,
			"username":      p.Username,
			"score":         p.Score,
			"survived":      p.Survived,
			"eliminated_at": p.EliminatedAt,
		})
	}

	var winner map[string]interface{}
	if len(ranking) > 0 {
		winner = map[string]interface{}{
			"user_id":  ranking[0].UserID,
			"username": ranking[0].Username,
			"score":    ranking[0].Score,
		}
	}

	payload := map[string]interface{}{
		"room_code": room.Code,
		"results":   results,
		"winner":    winner,
	}
	c.deps.Hub.BroadcastToRoom(room.Code, ws.Event{Type: ws.GAME_OVER, Data: payload})

	if err := c.deps.CacheRepo.SetJSON(resultsCacheKeyPrefix+room.Code, payload, c.config.ResultsTTL); err != nil {
		log.Printf("[RoomCoordinator] Кеширование результатов комнаты %s не удалось: %v", room.Code, err)
	}

	c.evaluateAchievementsLocked(state)

	c.mu.Lock()
	delete(c.rooms, room.Code)
	c.mu.Unlock()

	log.Printf("[RoomCoordinator] Комната %s завершена (участников: %d)", room.Code, len(ranking))
	return nil
}

// EvaluateAchievements проверяет и выдает достижения участникам комнаты
func (c *RoomCoordinator) EvaluateAchievements(roomCode string) error {
	state, err := c.getState(roomCode)
	if err != nil {
		return err
	}

	state.Mu.Lock()
	defer state.Mu.Unlock()
	c.evaluateAchievementsLocked(state)
	return nil
}

// evaluateAchievementsLocked сверяет статистику каждого участника с набором
// правил. Уникальный индекс хранилища делает выдачу идемпотентной, поэтому
// повторная оценка не приводит к двойным уведомлениям.
func (c *RoomCoordinator) evaluateAchievementsLocked(state *RoomState) {
	for _, p := range state.Participants {
		user, err := c.deps.UserRepo.GetByID(p.UserID)
		if err != nil {
			log.Printf("[RoomCoordinator] Загрузка пользователя %d для достижений не удалась: %v", p.UserID, err)
			continue
		}

		var slugs []string
		if user.GamesPlayed == 1 {
			slugs = append(slugs, entity.AchievementFirstGame)
		}
		if user.BestStreak >= 5 {
			slugs = append(slugs, entity.AchievementStreak5)
		}
		if user.BestStreak >= 10 {
			slugs = append(slugs, entity.AchievementStreak10)
		}
		if user.QuestionsAnswered > 0 && user.Accuracy() == 100 {
			slugs = append(slugs, entity.AchievementPerfectGame)
		}

		for _, slug := range slugs {
			achievement, err := c.deps.AchievementRepo.GetBySlug(slug)
			if err != nil {
				log.Printf("[RoomCoordinator] Достижение %q не найдено: %v", slug, err)
				continue
			}
			granted, err := c.deps.AchievementRepo.Unlock(user.ID, achievement.ID)
			if err != nil {
				log.Printf("[RoomCoordinator] Выдача достижения %q пользователю %d не удалась: %v", slug, user.ID, err)
				continue
			}
			if !granted {
				continue
			}

			c.deps.Hub.SendJSONToUser(user.ID, ws.Event{
				Type: ws.ACHIEVEMENT_UNLOCKED,
				Data: map[string]interface{}{
					"achievement": map[string]interface{}{
						"slug":        achievement.Slug,
						"name":        achievement.Name,
						"description": achievement.Description,
					},
				},
			})
			log.Printf("[RoomCoordinator] Пользователь %d разблокировал достижение %q", user.ID, slug)
		}
	}
}

// lobbySnapshotLocked собирает полный снимок комнаты для update_lobby
func (c *RoomCoordinator) lobbySnapshotLocked(state *RoomState) map[string]interface{} {
	room := state.Room

	topicName := ""
	if topic, err := c.deps.TopicRepo.GetByID(room.TopicID); err == nil {
		topicName = topic.Name
	}

	roster := make([]map[string]interface{}, 0, len(state.Participants))
	for _, p := range state.Roster() {
		roster = append(roster, map[string]interface{}{
			"user_id":    p.UserID,
			"username":   p.Username,
			"score":      p.Score,
			"survived":   p.Survived,
			"join_order": p.JoinOrder,
		})
	}

	return map[string]interface{}{
		"room_code":  room.Code,
		"mode":       room.Mode,
		"difficulty": room.Difficulty,
		"topic":      topicName,
		"status":     room.Status,
		"is_active":  room.Active,
		"roster":     roster,
	}
}

// LobbySnapshot возвращает снимок комнаты для HTTP-слоя
func (c *RoomCoordinator) LobbySnapshot(roomCode string) (map[string]interface{}, error) {
	state, err := c.getState(roomCode)
	if err != nil {
		return nil, err
	}

	state.Mu.Lock()
	defer state.Mu.Unlock()
	return c.lobbySnapshotLocked(state), nil
}

// submissionValue приводит разобранный ответ к строковому виду для журнала
func submissionValue(sub *AnswerSubmission) string {
	if len(sub.OptionIDs) > 0 {
		parts := make([]string, 0, len(sub.OptionIDs))
		for _, id := range sub.OptionIDs {
			parts = append(parts, strconv.FormatUint(uint64(id), 10))
		}
		return strings.Join(parts, ",")
	}
	return sub.Text
}
