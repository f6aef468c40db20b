package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomMode_IsSurvival(t *testing.T) {
	assert.False(t, ModeClassic.IsSurvival())
	assert.False(t, ModeSolo.IsSurvival())
	assert.True(t, ModeSurvivalNormal.IsSurvival())
	assert.True(t, ModeSurvivalHardcore.IsSurvival())
}

func TestRoomMode_IsValid(t *testing.T) {
	assert.True(t, ModeClassic.IsValid())
	assert.True(t, ModeSurvivalNormal.IsValid())
	assert.True(t, ModeSurvivalHardcore.IsValid())
	assert.True(t, ModeSolo.IsValid())
	assert.False(t, RoomMode("deathmatch").IsValid())
	assert.False(t, RoomMode("").IsValid())
}

func TestGameRoom_StatusHelpers(t *testing.T) {
	// Arrange & Act & Assert
	room := &GameRoom{Status: RoomStatusLobby}
	assert.True(t, room.IsLobby())
	assert.False(t, room.IsInProgress())
	assert.False(t, room.IsEnded())

	room.Status = RoomStatusInProgress
	assert.False(t, room.IsLobby())
	assert.True(t, room.IsInProgress())

	room.Status = RoomStatusEnded
	assert.True(t, room.IsEnded())
}

// Тесты для UintArray (JSONB сериализация)

func TestUintArray_Scan_ValidJSON(t *testing.T) {
	// Arrange
	var arr UintArray

	// Act
	err := arr.Scan([]byte(`[3,7,11]`))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, UintArray{3, 7, 11}, arr)
}

func TestUintArray_Scan_NullValue(t *testing.T) {
	// Arrange
	var arr UintArray

	// Act
	err := arr.Scan(nil)

	// Assert
	require.NoError(t, err, "Scan не должен возвращать ошибку для nil")
	assert.Len(t, arr, 0)
}

func TestUintArray_Scan_InvalidType(t *testing.T) {
	// Arrange
	var arr UintArray

	// Act: передаём неподдерживаемый тип
	err := arr.Scan(42)

	// Assert
	assert.Error(t, err, "Scan должен возвращать ошибку для неподдерживаемого типа")
}

func TestUintArray_Value_Empty(t *testing.T) {
	// Arrange
	var arr UintArray

	// Act
	val, err := arr.Value()

	// Assert
	require.NoError(t, err)
	bytes, ok := val.([]byte)
	require.True(t, ok, "Value должен возвращать []byte")
	assert.Equal(t, "[]", string(bytes), "Пустой список должен сериализоваться в []")
}

func TestUintArray_Contains(t *testing.T) {
	arr := UintArray{1, 5, 9}
	assert.True(t, arr.Contains(5))
	assert.False(t, arr.Contains(2))
	assert.False(t, UintArray{}.Contains(1))
}

func TestGameRoom_TableName(t *testing.T) {
	assert.Equal(t, "game_rooms", GameRoom{}.TableName())
}
