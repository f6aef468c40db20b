package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

const wsTicketUsage = "websocket_auth"

// JWTCustomClaims содержит пользовательские поля для токена
type JWTCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
	// Usage отличает WS-тикет от обычного access-токена
	Usage string `json:"usage,omitempty"`
}

// JWTService предоставляет методы для работы с JWT
type JWTService struct {
	secretKey      []byte
	expirationHrs  int
	wsTicketExpiry time.Duration
}

// NewJWTService создает новый сервис JWT
func NewJWTService(secretKey string, expirationHrs int, wsTicketExpirySec int) (*JWTService, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("JWT secret key is required")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	wsExpiry := time.Duration(wsTicketExpirySec) * time.Second
	if wsExpiry <= 0 {
		wsExpiry = 60 * time.Second
	}

	return &JWTService{
		secretKey:      []byte(secretKey),
		expirationHrs:  expirationHrs,
		wsTicketExpiry: wsExpiry,
	}, nil
}

// GenerateToken создает access-токен для пользователя
func (s *JWTService) GenerateToken(user *entity.User) (string, error) {
	claims := &JWTCustomClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(s.expirationHrs) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "quizroom-api",
			Subject:   fmt.Sprintf("%d", user.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		log.Printf("[JWT] Ошибка генерации токена для пользователя ID=%d: %v", user.ID, err)
		return "", err
	}
	return tokenString, nil
}

// ParseToken проверяет подпись и срок действия access-токена
func (s *JWTService) ParseToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, apperrors.ErrExpiredToken
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Usage != "" {
		// WS-тикет не годится как access-токен
		return nil, errors.New("invalid token usage")
	}
	return claims, nil
}

// GenerateWSTicket создает короткоживущий JWT для аутентификации WebSocket.
// Тикет передается в query-параметре при установлении соединения.
func (s *JWTService) GenerateWSTicket(userID uint, email string) (string, error) {
	claims := &JWTCustomClaims{
		UserID: userID,
		Email:  email,
		Usage:  wsTicketUsage,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.wsTicketExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "quizroom-api",
			Subject:   fmt.Sprintf("%d", userID),
			Audience:  jwt.ClaimStrings{"quizroom-ws"},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		log.Printf("[JWT] Ошибка генерации WS-тикета для пользователя ID=%d: %v", userID, err)
		return "", err
	}
	return tokenString, nil
}

// ParseWSTicket проверяет короткоживущий WS-тикет
func (s *JWTService) ParseWSTicket(ticketString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}

	token, err := jwt.ParseWithClaims(ticketString, claims, s.keyFunc)
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("%w: ticket", apperrors.ErrExpiredToken)
		}
		return nil, fmt.Errorf("invalid ticket: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid ticket")
	}
	if claims.Usage != wsTicketUsage {
		return nil, errors.New("invalid ticket usage")
	}
	return claims, nil
}

func (s *JWTService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return s.secretKey, nil
}
