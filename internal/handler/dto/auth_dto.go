package dto

// RegisterRequest содержит данные для регистрации
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Language string `json:"language" binding:"omitempty,min=2,max=5"`
}

// LoginRequest содержит учетные данные для входа
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse возвращается после успешной регистрации или входа
type AuthResponse struct {
	Token    string `json:"token"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// WSTicketResponse содержит короткоживущий тикет для WebSocket-подключения
type WSTicketResponse struct {
	Ticket string `json:"ticket"`
}
