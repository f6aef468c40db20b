package dto

import "time"

// CreateRoomRequest содержит параметры создания комнаты
type CreateRoomRequest struct {
	TopicID      uint   `json:"topic_id" binding:"required"`
	Mode         string `json:"mode" binding:"required"`
	Difficulty   string `json:"difficulty" binding:"required"`
	MaxQuestions int    `json:"max_questions" binding:"omitempty,min=1,max=50"`
}

// CreateSoloRoomRequest содержит параметры одиночной игры
type CreateSoloRoomRequest struct {
	TopicID      uint   `json:"topic_id" binding:"required"`
	Difficulty   string `json:"difficulty" binding:"required"`
	MaxQuestions int    `json:"max_questions" binding:"omitempty,min=1,max=50"`
}

// RoomResponse представляет комнату в формате для ответа клиенту
type RoomResponse struct {
	ID           uint       `json:"id"`
	Code         string     `json:"code"`
	CreatorID    uint       `json:"creator_id"`
	TopicID      uint       `json:"topic_id"`
	TopicName    string     `json:"topic_name,omitempty"`
	Mode         string     `json:"mode"`
	Difficulty   string     `json:"difficulty"`
	Status       string     `json:"status"`
	MaxQuestions int        `json:"max_questions"`
	PlayerCount  int        `json:"player_count"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// PlayerResultDTO представляет итог одного участника
type PlayerResultDTO struct {
	Rank         int    `json:"rank"`
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Score        int    `json:"score"`
	Survived     bool   `json:"survived"`
	EliminatedAt int    `json:"eliminated_at,omitempty"`
}

// GameResultsResponse представляет финальный итог игры
type GameResultsResponse struct {
	RoomCode string                 `json:"room_code"`
	Results  []*PlayerResultDTO     `json:"results"`
	Winner   map[string]interface{} `json:"winner,omitempty"`
}

// TopicDTO представляет тему вопросов
type TopicDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
