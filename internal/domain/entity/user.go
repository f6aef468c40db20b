package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User представляет пользователя в системе
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email    string `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password string `gorm:"size:100;not null" json:"-"`

	// Агрегированная статистика, обновляется при каждом принятом ответе
	GamesPlayed       int64 `gorm:"not null;default:0" json:"games_played"`
	QuestionsAnswered int64 `gorm:"not null;default:0" json:"questions_answered"`
	CorrectAnswers    int64 `gorm:"not null;default:0" json:"correct_answers"`
	// CurrentStreak - длина текущей серии правильных ответов подряд
	CurrentStreak int64 `gorm:"not null;default:0" json:"current_streak"`
	BestStreak    int64 `gorm:"not null;default:0" json:"best_streak"`
	TotalPoints   int64 `gorm:"not null;default:0;index:idx_users_leaderboard" json:"total_points"`

	Language string `gorm:"size:5;not null;default:'en'" json:"language"`
	Role     string `gorm:"size:20;not null;default:'user'" json:"-"` // "user" или "admin"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// Accuracy возвращает долю правильных ответов в процентах
func (u *User) Accuracy() float64 {
	if u.QuestionsAnswered == 0 {
		return 0
	}
	return float64(u.CorrectAnswers) / float64(u.QuestionsAnswered) * 100
}

// ApplyAnswer обновляет статистику пользователя по одному принятому ответу
func (u *User) ApplyAnswer(isCorrect bool, points int) {
	u.QuestionsAnswered++
	if isCorrect {
		u.CorrectAnswers++
		u.CurrentStreak++
		if u.CurrentStreak > u.BestStreak {
			u.BestStreak = u.CurrentStreak
		}
		u.TotalPoints += int64(points)
	} else {
		u.CurrentStreak = 0
	}
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	// Хешируем пароль только если он:
	// 1. Не пустой
	// 2. Не является уже bcrypt-хешем (начинается с "$2a$", "$2b$" или "$2y$")
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}
