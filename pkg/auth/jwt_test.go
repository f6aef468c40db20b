package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
)

func newTestService(t *testing.T) *JWTService {
	svc, err := NewJWTService("test-secret-key", 1, 60)
	require.NoError(t, err)
	return svc
}

func TestJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService("", 1, 60)
	assert.Error(t, err)
}

func TestJWTService_TokenRoundTrip(t *testing.T) {
	svc := newTestService(t)
	user := &entity.User{ID: 42, Email: "alice@example.com", Role: "user"}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Empty(t, claims.Usage)
}

func TestJWTService_ParseToken_InvalidSignature(t *testing.T) {
	svc := newTestService(t)
	other, err := NewJWTService("another-secret", 1, 60)
	require.NoError(t, err)

	token, err := other.GenerateToken(&entity.User{ID: 1, Email: "a@b.c"})
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	assert.Error(t, err)
}

func TestJWTService_WSTicketRoundTrip(t *testing.T) {
	svc := newTestService(t)

	ticket, err := svc.GenerateWSTicket(7, "bob@example.com")
	require.NoError(t, err)

	claims, err := svc.ParseWSTicket(ticket)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "bob@example.com", claims.Email)
}

func TestJWTService_UsageSeparation(t *testing.T) {
	svc := newTestService(t)
	user := &entity.User{ID: 42, Email: "alice@example.com", Role: "user"}

	// Access-токен не проходит как WS-тикет
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	_, err = svc.ParseWSTicket(token)
	assert.Error(t, err)

	// WS-тикет не проходит как access-токен
	ticket, err := svc.GenerateWSTicket(user.ID, user.Email)
	require.NoError(t, err)
	_, err = svc.ParseToken(ticket)
	assert.Error(t, err)
}
