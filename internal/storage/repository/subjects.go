package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/study-notes-market/internal/models"
)

// CreateSubject вставляет новый предмет и возвращает созданную запись.
func (s *Storage) CreateSubject(ctx context.Context, subject models.Subject) (*models.Subject, error) {
	const op = "storage.CreateSubject"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subjects (name, description, price, pdf_url)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, name, description, price, pdf_url, created_at`
	var result models.Subject
	row := s.DB.QueryRowContext(ctx, query,
		subject.Name, subject.Description, subject.Price, subject.PdfURL)
	if err := row.Scan(&result.ID, &result.Name, &result.Description,
		&result.Price, &result.PdfURL, &result.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListSubjects возвращает все предметы каталога, новые первыми.
func (s *Storage) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	const op = "storage.ListSubjects"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price, pdf_url, created_at
			  FROM subjects
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subject
	for rows.Next() {
		var item models.Subject
		if err := rows.Scan(&item.ID, &item.Name, &item.Description,
			&item.Price, &item.PdfURL, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetSubjectByID возвращает предмет по его ID.
func (s *Storage) GetSubjectByID(ctx context.Context, id int) (*models.Subject, error) {
	const op = "storage.GetSubjectByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price, pdf_url, created_at
			  FROM subjects
			  WHERE id = $1`
	var result models.Subject
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&result.ID, &result.Name, &result.Description,
		&result.Price, &result.PdfURL, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSubjectNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// RemoveSubject удаляет предмет по ID и возвращает pdf_url удаленной записи,
// чтобы вызывающая сторона могла удалить файл из объектного хранилища.
// Ссылающиеся на предмет платежи не трогаются.
func (s *Storage) RemoveSubject(ctx context.Context, id int) (string, error) {
	const op = "storage.RemoveSubject"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subjects WHERE id = $1 RETURNING pdf_url`
	var pdfURL string
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&pdfURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, ErrSubjectNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return pdfURL, nil
}
