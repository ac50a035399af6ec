package models

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// User представляет игрока
type User struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username    string    `gorm:"type:varchar(20);not null" json:"username"`
	UsernameKey string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"-"`
	Score       int       `gorm:"default:0;not null" json:"score"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	ReferrerID  *string   `gorm:"type:varchar(36);index" json:"referrer_id,omitempty"`

	// Связи
	Referrer *User `gorm:"foreignKey:ReferrerID;references:ID" json:"-"`
}

// UserCreate входные данные для регистрации
type UserCreate struct {
	Username   string  `json:"username" validate:"required,min=3,max=20"`
	Score      int     `json:"score" validate:"min=0"`
	ReferrerID *string `json:"referrer_id"`
}

// Normalize обрезает пробелы вокруг имени пользователя
func (u *UserCreate) Normalize() {
	u.Username = strings.TrimSpace(u.Username)
	if u.ReferrerID != nil && strings.TrimSpace(*u.ReferrerID) == "" {
		u.ReferrerID = nil
	}
}

// RegisterResult ответ на успешную регистрацию
type RegisterResult struct {
	Message  string `json:"message"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// InviteResult данные для приглашения друга
type InviteResult struct {
	Message    string `json:"message"`
	Score      int    `json:"score"`
	InviteLink string `json:"invite_link"`
}

// ScoreResult счет игрока
type ScoreResult struct {
	Score int `json:"score"`
}

// FoldKey приводит строку к виду для сравнения без учета регистра
func FoldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
