package websocket

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// Интервал фоновой очистки неактивных клиентов
	cleanupInterval = 1 * time.Minute

	// Порог неактивности, после которого клиент считается зависшим
	inactivityThreshold = 3 * pongWait
)

// Hub ведет реестр подключенных клиентов и групп рассылки по кодам комнат.
// Соответствие соединение → пользователь хранится только здесь и очищается
// при отключении, глобального состояния вне хаба нет.
type Hub struct {
	mu sync.RWMutex

	// Все подключенные клиенты
	clients map[*Client]bool

	// Активное соединение каждого пользователя.
	// Новое соединение того же пользователя вытесняет старое.
	userConns map[uint]*Client

	// Группы рассылки: код комнаты → (userID → клиент)
	rooms map[string]map[uint]*Client

	// Счетчики метрик
	totalConnections  int64
	activeConnections int64
	messagesSent      int64

	done      chan struct{}
	startTime time.Time
}

// NewHub создает новый хаб
func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*Client]bool),
		userConns: make(map[uint]*Client),
		rooms:     make(map[string]map[uint]*Client),
		done:      make(chan struct{}),
		startTime: time.Now(),
	}
}

// Run запускает фоновую очистку неактивных клиентов.
// Блокируется до вызова Close.
func (h *Hub) Run() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	log.Println("[Hub] Запущен цикл обслуживания хаба")
	for {
		select {
		case <-ticker.C:
			h.cleanupInactiveClients()
		case <-h.done:
			log.Println("[Hub] Цикл обслуживания остановлен")
			return
		}
	}
}

// Close останавливает фоновую работу хаба и отключает всех клиентов
func (h *Hub) Close() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		client.CloseSend()
	}
	h.clients = make(map[*Client]bool)
	h.userConns = make(map[uint]*Client)
	h.rooms = make(map[string]map[uint]*Client)
}

// RegisterClient добавляет клиента в реестр.
// Старое соединение того же пользователя закрывается.
func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	old := h.userConns[client.UserID]
	h.clients[client] = true
	h.userConns[client.UserID] = client
	h.mu.Unlock()

	atomic.AddInt64(&h.totalConnections, 1)
	atomic.AddInt64(&h.activeConnections, 1)

	if old != nil && old != client {
		log.Printf("[Hub] Пользователь %d открыл новое соединение, старое (%s) закрывается", client.UserID, old.ConnectionID)
		h.UnregisterClient(old)
	}
	log.Printf("[Hub] Клиент зарегистрирован: user=%d conn=%s", client.UserID, client.ConnectionID)
}

// UnregisterClient убирает клиента из реестра и из всех групп рассылки
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	_, known := h.clients[client]
	if known {
		delete(h.clients, client)
		if h.userConns[client.UserID] == client {
			delete(h.userConns, client.UserID)
		}
		for code, members := range h.rooms {
			if members[client.UserID] == client {
				delete(members, client.UserID)
				if len(members) == 0 {
					delete(h.rooms, code)
				}
			}
		}
	}
	h.mu.Unlock()

	if known {
		atomic.AddInt64(&h.activeConnections, -1)
		client.CloseSend()
		log.Printf("[Hub] Клиент отключен: user=%d conn=%s", client.UserID, client.ConnectionID)
	}
}

// JoinRoom добавляет соединение пользователя в группу рассылки комнаты
func (h *Hub) JoinRoom(roomCode string, userID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.userConns[userID]
	if !ok {
		log.Printf("[Hub] JoinRoom: у пользователя %d нет активного соединения", userID)
		return
	}
	members, ok := h.rooms[roomCode]
	if !ok {
		members = make(map[uint]*Client)
		h.rooms[roomCode] = members
	}
	members[userID] = client
	client.SetRoomCode(roomCode)
}

// LeaveRoom убирает соединение пользователя из группы рассылки комнаты
func (h *Hub) LeaveRoom(roomCode string, userID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomCode]
	if !ok {
		return
	}
	if client, ok := members[userID]; ok {
		delete(members, userID)
		client.ClearRoomCode()
	}
	if len(members) == 0 {
		delete(h.rooms, roomCode)
	}
}

// RoomMemberCount возвращает количество подключенных участников комнаты
func (h *Hub) RoomMemberCount(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomCode])
}

// BroadcastToRoom отправляет структуру JSON всем участникам комнаты.
// Вызывающая сторона сериализует события одной комнаты, поэтому порядок
// постановки в буферы клиентов совпадает с порядком эмиссии.
func (h *Hub) BroadcastToRoom(roomCode string, v interface{}) error {
	return h.broadcastToRoom(roomCode, 0, false, v)
}

// BroadcastToRoomExcept отправляет структуру JSON всем участникам комнаты,
// кроме указанного пользователя
func (h *Hub) BroadcastToRoomExcept(roomCode string, excludeUserID uint, v interface{}) error {
	return h.broadcastToRoom(roomCode, excludeUserID, true, v)
}

func (h *Hub) broadcastToRoom(roomCode string, excludeUserID uint, exclude bool, v interface{}) error {
	message, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal broadcast for room %s: %w", roomCode, err)
	}

	h.mu.RLock()
	members := h.rooms[roomCode]
	recipients := make([]*Client, 0, len(members))
	for userID, client := range members {
		if exclude && userID == excludeUserID {
			continue
		}
		recipients = append(recipients, client)
	}
	h.mu.RUnlock()

	for _, client := range recipients {
		h.enqueue(client, message)
	}
	return nil
}

// SendJSONToUser отправляет структуру JSON конкретному пользователю
func (h *Hub) SendJSONToUser(userID uint, v interface{}) error {
	message, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message for user %d: %w", userID, err)
	}
	if !h.SendToUser(userID, message) {
		return fmt.Errorf("user %d has no active connection", userID)
	}
	return nil
}

// SendToUser отправляет байтовое сообщение конкретному пользователю.
// Возвращает false, если у пользователя нет активного соединения.
func (h *Hub) SendToUser(userID uint, message []byte) bool {
	h.mu.RLock()
	client, ok := h.userConns[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	h.enqueue(client, message)
	return true
}

// enqueue кладет сообщение в буфер клиента.
// Клиент с переполненным буфером считается зависшим и отключается.
func (h *Hub) enqueue(client *Client, message []byte) {
	if client.IsSendClosed() {
		return
	}
	select {
	case client.send <- message:
		atomic.AddInt64(&h.messagesSent, 1)
	default:
		log.Printf("[Hub] Буфер клиента user=%d conn=%s переполнен, соединение закрывается",
			client.UserID, client.ConnectionID)
		h.UnregisterClient(client)
	}
}

// cleanupInactiveClients отключает клиентов без активности дольше порога
func (h *Hub) cleanupInactiveClients() {
	h.mu.RLock()
	var stale []*Client
	for client := range h.clients {
		if time.Since(client.LastActivity()) > inactivityThreshold {
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		log.Printf("[Hub] Удаление неактивного клиента user=%d conn=%s", client.UserID, client.ConnectionID)
		h.UnregisterClient(client)
	}
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetMetrics возвращает текущие метрики хаба
func (h *Hub) GetMetrics() map[string]interface{} {
	h.mu.RLock()
	roomCount := len(h.rooms)
	h.mu.RUnlock()

	return map[string]interface{}{
		"total_connections":  atomic.LoadInt64(&h.totalConnections),
		"active_connections": atomic.LoadInt64(&h.activeConnections),
		"messages_sent":      atomic.LoadInt64(&h.messagesSent),
		"room_count":         roomCount,
		"uptime_seconds":     int64(time.Since(h.startTime).Seconds()),
	}
}
