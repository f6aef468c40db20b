package websocket

// MetricsProvider определяет метод для получения метрик хаба.
type MetricsProvider interface {
	GetMetrics() map[string]interface{}
	ClientCount() int
}

// HubInterface объединяет возможности хаба для Manager и игрового координатора.
// Все рассылки по комнате проходят через единственную горутину хаба,
// что гарантирует порядок доставки событий внутри комнаты.
type HubInterface interface {
	// BroadcastToRoom отправляет структуру JSON всем участникам комнаты
	BroadcastToRoom(roomCode string, v interface{}) error

	// BroadcastToRoomExcept отправляет структуру JSON всем участникам комнаты,
	// кроме указанного пользователя
	BroadcastToRoomExcept(roomCode string, excludeUserID uint, v interface{}) error

	// SendJSONToUser отправляет структуру JSON конкретному пользователю
	SendJSONToUser(userID uint, v interface{}) error

	// JoinRoom добавляет соединение пользователя в группу рассылки комнаты
	JoinRoom(roomCode string, userID uint)

	// LeaveRoom убирает соединение пользователя из группы рассылки комнаты
	LeaveRoom(roomCode string, userID uint)

	// RoomMemberCount возвращает количество подключенных участников комнаты
	RoomMemberCount(roomCode string) int

	// GetMetrics возвращает метрики хаба
	GetMetrics() map[string]interface{}

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
