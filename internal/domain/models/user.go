package models

import "time"

// User представляет покупателя или администратора магазина
type User struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"` // уникальный
	PassHash  []byte    `json:"-" bson:"pass_hash"`
	IsAdmin   bool      `json:"isAdmin" bson:"is_admin"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// UserPublic - публичная проекция пользователя, хэш пароля сюда не попадает
type UserPublic struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// Public возвращает публичную проекцию пользователя
func (u *User) Public() UserPublic {
	return UserPublic{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	}
}
