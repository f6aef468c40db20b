package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// RoomRepo реализует repository.RoomRepository
type RoomRepo struct {
	db *gorm.DB
}

// NewRoomRepo создает новый репозиторий игровых комнат
func NewRoomRepo(db *gorm.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create создает новую комнату.
// Частичный уникальный индекс по коду среди активных комнат превращает
// гонку за один код в 23505, которая возвращается как ErrConflict.
func (r *RoomRepo) Create(room *entity.GameRoom) error {
	if err := r.db.Create(room).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: room code %s", apperrors.ErrConflict, room.Code)
		}
		return err
	}
	return nil
}

// GetByID возвращает комнату по ID
func (r *RoomRepo) GetByID(id uint) (*entity.GameRoom, error) {
	var room entity.GameRoom
	err := r.db.First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// GetByCode возвращает комнату по коду. Среди активных комнат код уникален,
// для завершенных берется самая свежая запись.
func (r *RoomRepo) GetByCode(code string) (*entity.GameRoom, error) {
	var room entity.GameRoom
	err := r.db.Where("code = ?", code).Order("id DESC").First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

// Update обновляет состояние комнаты
func (r *RoomRepo) Update(room *entity.GameRoom) error {
	return r.db.Save(room).Error
}

// CodeExists проверяет занятость кода среди активных комнат
func (r *RoomRepo) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.GameRoom{}).
		Where("code = ? AND active = ?", code, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListActive возвращает активные комнаты с пагинацией
func (r *RoomRepo) ListActive(limit, offset int) ([]entity.GameRoom, error) {
	var rooms []entity.GameRoom
	err := r.db.Where("active = ?", true).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// isUniqueViolation проверяет Postgres unique violation (23505) для pgconn и lib/pq драйверов
func isUniqueViolation(err error) bool {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return false
}
