package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// AchievementRepo реализует repository.AchievementRepository
type AchievementRepo struct {
	db *gorm.DB
}

// NewAchievementRepo создает новый репозиторий достижений
func NewAchievementRepo(db *gorm.DB) *AchievementRepo {
	return &AchievementRepo{db: db}
}

// GetBySlug возвращает достижение по слагу
func (r *AchievementRepo) GetBySlug(slug string) (*entity.Achievement, error) {
	var achievement entity.Achievement
	err := r.db.Where("slug = ?", slug).First(&achievement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &achievement, nil
}

// List возвращает весь каталог достижений
func (r *AchievementRepo) List() ([]entity.Achievement, error) {
	var achievements []entity.Achievement
	err := r.db.Order("id").Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

// Unlock выдает достижение пользователю. Уникальный индекс по
// (user_id, achievement_id) превращает повторную выдачу в 23505,
// которая интерпретируется как "уже разблокировано" без ошибки.
func (r *AchievementRepo) Unlock(userID, achievementID uint) (bool, error) {
	record := entity.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now(),
	}
	if err := r.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListForUser возвращает разблокированные пользователем достижения
func (r *AchievementRepo) ListForUser(userID uint) ([]entity.Achievement, error) {
	var achievements []entity.Achievement
	err := r.db.
		Joins("JOIN user_achievements ON user_achievements.achievement_id = achievements.id").
		Where("user_achievements.user_id = ?", userID).
		Order("user_achievements.unlocked_at").
		Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}
