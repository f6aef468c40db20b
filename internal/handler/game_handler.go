package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizroom-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
	"github.com/yourusername/quizroom-api/internal/service"
	"github.com/yourusername/quizroom-api/internal/service/roommanager"
)

// GameHandler обрабатывает HTTP-запросы, связанные с игровыми комнатами
type GameHandler struct {
	gameManager *service.GameManager
	coordinator *roommanager.RoomCoordinator
}

// NewGameHandler создает новый обработчик игр
func NewGameHandler(gameManager *service.GameManager, coordinator *roommanager.RoomCoordinator) *GameHandler {
	return &GameHandler{
		gameManager: gameManager,
		coordinator: coordinator,
	}
}

// CreateRoom обрабатывает запрос на создание многопользовательской комнаты
func (h *GameHandler) CreateRoom(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.gameManager.CreateRoom(userID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

// CreateSoloRoom обрабатывает запрос на создание одиночной игры
func (h *GameHandler) CreateSoloRoom(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req dto.CreateSoloRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.gameManager.CreateSoloRoom(userID, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

// GetRoom возвращает комнату по коду
func (h *GameHandler) GetRoom(c *gin.Context) {
	code := normalizeRoomCode(c.Param("code"))

	room, err := h.gameManager.GetRoomByCode(code)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, room)
}

// GetResults возвращает итог завершенной игры
func (h *GameHandler) GetResults(c *gin.Context) {
	code := normalizeRoomCode(c.Param("code"))

	results, err := h.gameManager.GetResults(code)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// ListRooms возвращает активные комнаты с пагинацией
func (h *GameHandler) ListRooms(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	pageSize := parsePositiveInt(c.DefaultQuery("page_size", "20"), 20)

	rooms, err := h.gameManager.ListActiveRooms(page, pageSize)
	if err != nil {
		log.Printf("[GameHandler] Ошибка получения списка комнат: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetTopics возвращает каталог тем
func (h *GameHandler) GetTopics(c *gin.Context) {
	topics, err := h.gameManager.Topics()
	if err != nil {
		log.Printf("[GameHandler] Ошибка получения тем: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// GetLobby возвращает снимок лобби комнаты
func (h *GameHandler) GetLobby(c *gin.Context) {
	code := normalizeRoomCode(c.Param("code"))

	snapshot, err := h.coordinator.LobbySnapshot(code)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// writeError преобразует доменную ошибку в HTTP-ответ
func (h *GameHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("[GameHandler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func normalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func parsePositiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
