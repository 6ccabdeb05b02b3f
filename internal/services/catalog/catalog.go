// Package catalog содержит бизнес-логику каталога предметов:
// создание с загрузкой PDF в объектное хранилище, список и удаление.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/study-notes-market/internal/lib/sl"
	"github.com/magabrotheeeer/study-notes-market/internal/models"
	"github.com/magabrotheeeer/study-notes-market/internal/storage/repository"
)

var (
	// ErrSubjectNotFound возвращается, когда предмет не существует.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrWrongPrice возвращается, когда цена не совпадает с единой ценой каталога.
	ErrWrongPrice = errors.New("price does not match catalog price")
)

// SubjectRepository определяет методы для работы с предметами в хранилище.
type SubjectRepository interface {
	// CreateSubject добавляет предмет и возвращает созданную запись.
	CreateSubject(ctx context.Context, subject models.Subject) (*models.Subject, error)
	// ListSubjects возвращает все предметы, новые первыми.
	ListSubjects(ctx context.Context) ([]*models.Subject, error)
	// GetSubjectByID возвращает предмет по ID.
	GetSubjectByID(ctx context.Context, id int) (*models.Subject, error)
	// RemoveSubject удаляет предмет и возвращает pdf_url удаленной записи.
	RemoveSubject(ctx context.Context, id int) (string, error)
}

// BlobStore описывает объектное хранилище PDF-файлов.
type BlobStore interface {
	// Upload загружает объект и возвращает его публичный URL.
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	// Delete удаляет объект по его публичному URL.
	Delete(ctx context.Context, url string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует бизнес-логику каталога предметов.
type Service struct {
	repo       SubjectRepository
	blobs      BlobStore
	cache      Cache
	fixedPrice float64
	log        *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo SubjectRepository, blobs BlobStore, cache Cache, fixedPrice float64, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		blobs:      blobs,
		cache:      cache,
		fixedPrice: fixedPrice,
		log:        log,
	}
}

// Create загружает PDF в объектное хранилище и создает предмет.
// Файл загружается до записи метаданных: при ошибке вставки загруженный
// объект удаляется, полусозданных предметов не остается.
// Цена проверяется на сервере против единой цены каталога.
func (s *Service) Create(ctx context.Context, name, description string, price float64, file io.Reader) (*models.Subject, error) {
	if price != s.fixedPrice {
		return nil, ErrWrongPrice
	}

	key := "pdfs/" + uuid.New().String() + ".pdf"
	pdfURL, err := s.blobs.Upload(ctx, key, "application/pdf", file)
	if err != nil {
		return nil, fmt.Errorf("upload pdf: %w", err)
	}

	subject, err := s.repo.CreateSubject(ctx, models.Subject{
		Name:        name,
		Description: description,
		Price:       price,
		PdfURL:      pdfURL,
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, pdfURL); delErr != nil {
			s.log.Warn("failed to delete orphaned pdf", slog.String("url", pdfURL), sl.Err(delErr))
		}
		return nil, err
	}

	s.log.Info("created new subject", slog.Int("id", subject.ID))

	cacheKey := fmt.Sprintf("subject:%d", subject.ID)
	if err := s.cache.Set(cacheKey, subject, time.Hour); err != nil {
		s.log.Warn("failed to cache subject", slog.String("key", cacheKey), sl.Err(err))
	}

	return subject, nil
}

// List возвращает все предметы каталога, новые первыми.
func (s *Service) List(ctx context.Context) ([]*models.Subject, error) {
	return s.repo.ListSubjects(ctx)
}

// Get возвращает предмет по ID, используя кеш или репозиторий.
func (s *Service) Get(ctx context.Context, id int) (*models.Subject, error) {
	var result *models.Subject
	cacheKey := fmt.Sprintf("subject:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.GetSubjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), sl.Err(err))
	}
	return result, nil
}

// Remove удаляет предмет и его PDF из объектного хранилища.
// Ошибка удаления файла не отменяет удаление метаданных и только логируется.
// Платежи, ссылающиеся на предмет, остаются без изменений.
func (s *Service) Remove(ctx context.Context, id int) error {
	cacheKey := fmt.Sprintf("subject:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), sl.Err(err))
	}

	pdfURL, err := s.repo.RemoveSubject(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}

	if err := s.blobs.Delete(ctx, pdfURL); err != nil {
		s.log.Warn("failed to delete pdf from blob storage", slog.String("url", pdfURL), sl.Err(err))
	}

	s.log.Info("removed subject", slog.Int("id", id))
	return nil
}
