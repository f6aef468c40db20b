package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/quizroom-api/internal/domain/repository"
	"github.com/yourusername/quizroom-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
)

// UserService предоставляет методы для работы с пользователями
type UserService struct {
	userRepo        repository.UserRepository
	achievementRepo repository.AchievementRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository, achievementRepo repository.AchievementRepository) *UserService {
	return &UserService{
		userRepo:        userRepo,
		achievementRepo: achievementRepo,
	}
}

// GetLeaderboard возвращает пагинированный список пользователей для лидерборда.
func (s *UserService) GetLeaderboard(page, pageSize int) (*dto.PaginatedLeaderboardResponse, error) {
	// Валидация параметров пагинации
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10 // Значение по умолчанию
	} else if pageSize > 100 {
		pageSize = 100 // Максимальный лимит
	}

	offset := (page - 1) * pageSize

	users, total, err := s.userRepo.GetLeaderboard(pageSize, offset)
	if err != nil {
		log.Printf("[UserService] Ошибка при получении лидерборда из репозитория: %v", err)
		return nil, err
	}

	userDTOs := make([]*dto.LeaderboardUserDTO, len(users))
	for i, user := range users {
		userDTOs[i] = &dto.LeaderboardUserDTO{
			Rank:        offset + i + 1, // Рассчитываем ранг на основе смещения и индекса
			UserID:      user.ID,
			Username:    user.Username,
			TotalPoints: user.TotalPoints,
			BestStreak:  user.BestStreak,
			GamesPlayed: user.GamesPlayed,
		}
	}

	return &dto.PaginatedLeaderboardResponse{
		Users:   userDTOs,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	}, nil
}

// GetProfile возвращает профиль пользователя со статистикой
func (s *UserService) GetProfile(userID uint) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return &dto.ProfileResponse{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		Language:          user.Language,
		GamesPlayed:       user.GamesPlayed,
		QuestionsAnswered: user.QuestionsAnswered,
		CorrectAnswers:    user.CorrectAnswers,
		Accuracy:          user.Accuracy(),
		CurrentStreak:     user.CurrentStreak,
		BestStreak:        user.BestStreak,
		TotalPoints:       user.TotalPoints,
	}, nil
}

// UpdateProfile обновляет изменяемые поля профиля
func (s *UserService) UpdateProfile(userID uint, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Language != "" {
		lang := strings.ToLower(strings.TrimSpace(req.Language))
		if len(lang) < 2 || len(lang) > 5 {
			return nil, fmt.Errorf("%w: invalid language code", apperrors.ErrValidation)
		}
		user.Language = lang
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.GetProfile(userID)
}

// ListAchievements возвращает каталог достижений с отметками о выдаче
func (s *UserService) ListAchievements(userID uint) ([]*dto.AchievementDTO, error) {
	catalog, err := s.achievementRepo.List()
	if err != nil {
		return nil, err
	}
	unlocked, err := s.achievementRepo.ListForUser(userID)
	if err != nil {
		return nil, err
	}

	unlockedIDs := make(map[uint]struct{}, len(unlocked))
	for _, a := range unlocked {
		unlockedIDs[a.ID] = struct{}{}
	}

	out := make([]*dto.AchievementDTO, len(catalog))
	for i, a := range catalog {
		_, has := unlockedIDs[a.ID]
		out[i] = &dto.AchievementDTO{
			ID:          a.ID,
			Slug:        a.Slug,
			Name:        a.Name,
			Description: a.Description,
			Unlocked:    has,
		}
	}
	return out, nil
}
