package dto

// LeaderboardUserDTO представляет одного пользователя в лидерборде
type LeaderboardUserDTO struct {
	Rank        int    `json:"rank"`         // Место пользователя в рейтинге
	UserID      uint   `json:"user_id"`      // ID пользователя
	Username    string `json:"username"`     // Имя пользователя
	TotalPoints int64  `json:"total_points"` // Суммарные очки за все игры
	BestStreak  int64  `json:"best_streak"`  // Лучшая серия правильных ответов
	GamesPlayed int64  `json:"games_played"` // Количество сыгранных игр
}

// PaginatedLeaderboardResponse представляет пагинированный ответ для лидерборда
type PaginatedLeaderboardResponse struct {
	Users   []*LeaderboardUserDTO `json:"users"`    // Список пользователей на странице
	Total   int64                 `json:"total"`    // Общее количество пользователей в лидерборде
	Page    int                   `json:"page"`     // Текущая страница
	PerPage int                   `json:"per_page"` // Количество пользователей на странице
}

// ProfileResponse представляет профиль пользователя со статистикой
type ProfileResponse struct {
	ID                uint    `json:"id"`
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	Language          string  `json:"language"`
	GamesPlayed       int64   `json:"games_played"`
	QuestionsAnswered int64   `json:"questions_answered"`
	CorrectAnswers    int64   `json:"correct_answers"`
	Accuracy          float64 `json:"accuracy"`
	CurrentStreak     int64   `json:"current_streak"`
	BestStreak        int64   `json:"best_streak"`
	TotalPoints       int64   `json:"total_points"`
}

// AchievementDTO представляет достижение в каталоге с отметкой о выдаче
type AchievementDTO struct {
	ID          uint   `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// UpdateProfileRequest содержит изменяемые поля профиля
type UpdateProfileRequest struct {
	Language string `json:"language" binding:"omitempty,min=2,max=5"`
}
