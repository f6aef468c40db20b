package roommanager

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

// RoomState хранит авторитетное состояние одной игровой сессии.
// Все мутации комнаты сериализуются через Mu, разные комнаты
// продвигаются полностью параллельно. Методы ниже не берут блокировку
// сами: вызывающая сторона держит Mu на время составной операции.
type RoomState struct {
	Mu sync.Mutex

	Room *entity.GameRoom

	// Участники комнаты по ID пользователя
	Participants map[uint]*entity.Participant

	// Текущий разданный вопрос (nil между вопросами и до старта)
	CurrentQuestion *entity.Question
	// Время раздачи текущего вопроса
	QuestionSentAt time.Time

	// Защита от повторного планирования перехода к следующему вопросу
	// в окне "все ответили"
	AdvancePending bool

	// Ctx отменяется при завершении комнаты, обрывая отложенные переходы
	Ctx    context.Context
	Cancel context.CancelFunc
}

// NewRoomState создает состояние комнаты из записей хранилища
func NewRoomState(room *entity.GameRoom, participants []entity.Participant) *RoomState {
	ctx, cancel := context.WithCancel(context.Background())

	byUser := make(map[uint]*entity.Participant, len(participants))
	for i := range participants {
		p := participants[i]
		byUser[p.UserID] = &p
	}

	return &RoomState{
		Room:         room,
		Participants: byUser,
		Ctx:          ctx,
		Cancel:       cancel,
	}
}

// Roster возвращает участников в порядке входа
func (s *RoomState) Roster() []*entity.Participant {
	roster := make([]*entity.Participant, 0, len(s.Participants))
	for _, p := range s.Participants {
		roster = append(roster, p)
	}
	sort.Slice(roster, func(i, j int) bool {
		return roster[i].JoinOrder < roster[j].JoinOrder
	})
	return roster
}

// NextJoinOrder возвращает порядковый номер для нового участника
func (s *RoomState) NextJoinOrder() int {
	max := 0
	for _, p := range s.Participants {
		if p.JoinOrder > max {
			max = p.JoinOrder
		}
	}
	return max + 1
}

// EligibleCount возвращает количество участников, еще учитываемых
// при раздаче вопросов (в survival-режимах выбывшие не считаются)
func (s *RoomState) EligibleCount() int {
	count := 0
	for _, p := range s.Participants {
		if p.IsEligible(s.Room.Mode) {
			count++
		}
	}
	return count
}

// AllEligibleAnswered проверяет, ответили ли на вопрос все участники,
// которые еще в игре
func (s *RoomState) AllEligibleAnswered(questionID uint) bool {
	eligible := 0
	for _, p := range s.Participants {
		if !p.IsEligible(s.Room.Mode) {
			continue
		}
		eligible++
		if !p.HasAnswered(questionID) {
			return false
		}
	}
	return eligible > 0
}

// Ranking возвращает участников по убыванию счета.
// Ничья разрешается порядком входа: вошедший раньше стоит выше.
func (s *RoomState) Ranking() []*entity.Participant {
	ranking := s.Roster()
	sort.SliceStable(ranking, func(i, j int) bool {
		if ranking[i].Score != ranking[j].Score {
			return ranking[i].Score > ranking[j].Score
		}
		return ranking[i].JoinOrder < ranking[j].JoinOrder
	})
	return ranking
}
