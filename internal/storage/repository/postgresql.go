// Package repository реализует хранилище данных на основе PostgreSQL
// для маркетплейса учебных материалов. Предоставляет методы работы
// с пользователями, предметами и платежами.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки уровня хранилища; сервисы транслируют их в свои sentinel-ошибки.
var (
	// ErrUserNotFound возвращается, когда пользователь с таким email не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists возвращается при попытке зарегистрировать занятый email.
	ErrEmailExists = errors.New("email already exists")
	// ErrSubjectNotFound возвращается, когда предмет с таким id не существует.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrPaymentNotFound возвращается, когда платеж с таким id не существует.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrAlreadyDecided возвращается при попытке изменить платеж,
	// уже переведенный в терминальный статус.
	ErrAlreadyDecided = errors.New("payment already decided")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с пользователями, предметами и платежами.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'subjects'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table subjects missing or query error: %w", err)
	}
	return nil
}
