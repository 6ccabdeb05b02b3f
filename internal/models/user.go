// Package models содержит доменные структуры маркетплейса учебных материалов:
// пользователей, предметы (конспекты в PDF) и платежи, ожидающие ручной проверки.
package models

import "time"

// Role описывает роль пользователя. Закрытый набор значений,
// проверки доступа выполняются сравнением типизированных констант,
// а не произвольных строк.
type Role string

const (
	// RoleAdmin — администратор: загружает предметы и проверяет платежи.
	RoleAdmin Role = "admin"
	// RoleStudent — студент: отправляет платежи и получает доступ к файлам.
	RoleStudent Role = "student"
)

// Valid сообщает, входит ли роль в закрытый набор.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent:
		return true
	}
	return false
}

// User представляет зарегистрированного пользователя системы.
// Email — естественный ключ, пароль хранится только в виде bcrypt-хэша.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
