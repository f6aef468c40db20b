package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
	"github.com/yourusername/quizroom-api/internal/service/roommanager"
	"github.com/yourusername/quizroom-api/internal/websocket"
	"github.com/yourusername/quizroom-api/pkg/auth"
)

// WSHandler обрабатывает WebSocket соединения
type WSHandler struct {
	wsHub       *websocket.Hub
	wsManager   *websocket.Manager
	coordinator *roommanager.RoomCoordinator
	jwtService  *auth.JWTService
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(
	wsHub *websocket.Hub,
	wsManager *websocket.Manager,
	coordinator *roommanager.RoomCoordinator,
	jwtService *auth.JWTService,
	allowedOrigins []string,
) *WSHandler {
	handler := &WSHandler{
		wsHub:       wsHub,
		wsManager:   wsManager,
		coordinator: coordinator,
		jwtService:  jwtService,
	}

	configureUpgrader(allowedOrigins)

	// Регистрируем обработчики сообщений один раз при создании обработчика
	handler.registerMessageHandlers()

	return handler
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:    4096,
	WriteBufferSize:   4096,
	EnableCompression: true,
}

func configureUpgrader(allowedOrigins []string) {
	upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Пустой Origin - не браузерный клиент (мобильное приложение, curl)
		if origin == "" {
			return true
		}
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}
		log.Printf("WebSocket: rejected unauthorized origin: %s", origin)
		return false
	}
}

// HandleConnection обрабатывает входящее WebSocket соединение.
// Аутентификация идет по короткоживущему тикету (?ticket=...),
// сам access-токен в query-строку не попадает.
func (h *WSHandler) HandleConnection(c *gin.Context) {
	ticket := c.Query("ticket")
	// НЕ логируем тикет - это секретные данные аутентификации
	if ticket == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing authentication ticket parameter"})
		return
	}

	claims, err := h.jwtService.ParseWSTicket(ticket)
	if err != nil {
		log.Printf("WebSocket: Invalid or expired ticket - %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired ticket"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket: Error upgrading connection: %v", err)
		return
	}

	client := websocket.NewClient(h.wsHub, conn, claims.UserID, claims.Email)
	client.StartPumps(h.wsManager.HandleMessage)

	h.wsManager.SendEventToUser(claims.UserID, websocket.CONNECTED, map[string]interface{}{
		"user_id":       claims.UserID,
		"connection_id": client.ConnectionID,
	})

	log.Printf("WebSocket: Connection established for UserID: %d", claims.UserID)
}

// registerMessageHandlers регистрирует обработчики игровых сообщений
func (h *WSHandler) registerMessageHandlers() {
	h.wsManager.RegisterHandler(websocket.JOIN_GAME, func(data json.RawMessage, client *websocket.Client) error {
		var req struct {
			RoomCode string `json:"room_code"`
		}
		if err := json.Unmarshal(data, &req); err != nil {
			h.wsManager.SendErrorToClient(client, "invalid_format", "Failed to parse join_game event")
			return nil
		}
		if err := h.coordinator.Join(req.RoomCode, client.UserID); err != nil {
			h.sendGameError(client, err)
		}
		return nil
	})

	h.wsManager.RegisterHandler(websocket.LEAVE_GAME, func(data json.RawMessage, client *websocket.Client) error {
		roomCode := client.RoomCode()
		if roomCode == "" {
			h.wsManager.SendErrorToClient(client, "not_in_room", "You are not in a game room")
			return nil
		}
		if err := h.coordinator.Leave(roomCode, client.UserID); err != nil {
			h.sendGameError(client, err)
		}
		return nil
	})

	h.wsManager.RegisterHandler(websocket.START_GAME, func(data json.RawMessage, client *websocket.Client) error {
		roomCode := client.RoomCode()
		if roomCode == "" {
			h.wsManager.SendErrorToClient(client, "not_in_room", "You are not in a game room")
			return nil
		}
		if err := h.coordinator.Start(roomCode, client.UserID); err != nil {
			h.sendGameError(client, err)
		}
		return nil
	})

	h.wsManager.RegisterHandler(websocket.SUBMIT_ANSWER, func(data json.RawMessage, client *websocket.Client) error {
		roomCode := client.RoomCode()
		if roomCode == "" {
			h.wsManager.SendErrorToClient(client, "not_in_room", "You are not in a game room")
			return nil
		}
		sub, err := parseAnswerSubmission(data)
		if err != nil {
			h.wsManager.SendErrorToClient(client, "invalid_format", err.Error())
			return nil
		}
		if err := h.coordinator.SubmitAnswer(roomCode, client.UserID, sub); err != nil {
			h.sendGameError(client, err)
		}
		return nil
	})

	h.wsManager.RegisterHandler(websocket.NEXT_QUESTION, func(data json.RawMessage, client *websocket.Client) error {
		roomCode := client.RoomCode()
		if roomCode == "" {
			h.wsManager.SendErrorToClient(client, "not_in_room", "You are not in a game room")
			return nil
		}
		if err := h.coordinator.NextQuestion(roomCode, client.UserID); err != nil {
			h.sendGameError(client, err)
		}
		return nil
	})

	h.wsManager.RegisterHandler(websocket.KICK_PLAYER, func(data json.RawMessage, client *websocket.Client) error {
		var req struct {
			UserID uint `json:"user_id"`
		}
		if err := json.Unmarshal(data, &req); err != nil {
			h.wsManager.SendErrorToClient(client, "invalid_format", "Failed to parse kick_player event")
			return nil
		}
		roomCode := client.RoomCode()
		if roomCode == "" {
			h.wsManager.SendErrorToClient(client, "not_in_room", "You are not in a game room")
			return nil
		}
		if err := h.coordinator.Kick(roomCode, client.UserID, req.UserID); err != nil {
			h.sendGameError(client, err)
		}
		return nil
	})
}

// parseAnswerSubmission разбирает поле answer, которое может быть числом
// (один вариант), массивом чисел (несколько вариантов) или строкой
// (свободный ответ)
func parseAnswerSubmission(data json.RawMessage) (*roommanager.AnswerSubmission, error) {
	var raw struct {
		QuestionID uint            `json:"question_id"`
		Answer     json.RawMessage `json:"answer"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse submit_answer event")
	}
	if raw.QuestionID == 0 {
		return nil, fmt.Errorf("question_id is required")
	}
	if len(raw.Answer) == 0 {
		return nil, fmt.Errorf("answer is required")
	}

	sub := &roommanager.AnswerSubmission{QuestionID: raw.QuestionID}

	var single uint
	if err := json.Unmarshal(raw.Answer, &single); err == nil {
		sub.OptionIDs = []uint{single}
		return sub, nil
	}
	var multiple []uint
	if err := json.Unmarshal(raw.Answer, &multiple); err == nil {
		sub.OptionIDs = multiple
		return sub, nil
	}
	var text string
	if err := json.Unmarshal(raw.Answer, &text); err == nil {
		sub.Text = text
		return sub, nil
	}
	return nil, fmt.Errorf("answer must be an option id, an array of option ids or a string")
}

// sendGameError преобразует доменную ошибку в ERROR-событие для клиента
func (h *WSHandler) sendGameError(client *websocket.Client, err error) {
	code := "internal_error"
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code = "not_found"
	case errors.Is(err, apperrors.ErrInvalidState):
		code = "invalid_state"
	case errors.Is(err, apperrors.ErrDuplicateAnswer):
		code = "duplicate_answer"
	case errors.Is(err, apperrors.ErrUnauthorized):
		code = "forbidden"
	case errors.Is(err, apperrors.ErrInvalidRequest), errors.Is(err, apperrors.ErrValidation):
		code = "invalid_request"
	}
	if code == "internal_error" {
		log.Printf("[WSHandler] Внутренняя ошибка для пользователя %d: %v", client.UserID, err)
		h.wsManager.SendErrorToClient(client, code, "Internal server error")
		return
	}
	h.wsManager.SendErrorToClient(client, code, err.Error())
}
