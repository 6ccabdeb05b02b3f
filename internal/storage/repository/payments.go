package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/study-notes-market/internal/models"
)

// CreatePayment вставляет новый платеж в статусе pending и возвращает созданную запись.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (*models.Payment, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (student_email, subject_id, amount, transaction_id, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id, student_email, subject_id, amount, transaction_id, status,
			      decided_by, decided_at, created_at`
	row := s.DB.QueryRowContext(ctx, query,
		payment.StudentEmail, payment.SubjectID, payment.Amount,
		payment.TransactionID, models.StatusPending)
	return scanPayment(row, op)
}

// ListPaymentsByEmail возвращает платежи студента, новые первыми.
func (s *Storage) ListPaymentsByEmail(ctx context.Context, email string) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, student_email, subject_id, amount, transaction_id, status,
			      decided_by, decided_at, created_at
			  FROM payments
			  WHERE student_email = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectPayments(rows, op)
}

// ListAllPayments возвращает все платежи, новые первыми.
func (s *Storage) ListAllPayments(ctx context.Context) ([]*models.Payment, error) {
	const op = "storage.ListAllPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, student_email, subject_id, amount, transaction_id, status,
			      decided_by, decided_at, created_at
			  FROM payments
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collectPayments(rows, op)
}

// UpdatePaymentStatus атомарно переводит платеж из pending в терминальный статус.
// Выигрывает первый перевод: повторная попытка решить уже решенный платеж
// возвращает ErrAlreadyDecided, несуществующий id — ErrPaymentNotFound.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, id int, status models.PaymentStatus, decidedBy string) (*models.Payment, error) {
	const op = "storage.UpdatePaymentStatus"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments
			  SET status = $2, decided_by = $3, decided_at = now()
			  WHERE id = $1 AND status = $4
			  RETURNING id, student_email, subject_id, amount, transaction_id, status,
			      decided_by, decided_at, created_at`
	row := s.DB.QueryRowContext(ctx, query, id, status, decidedBy, models.StatusPending)
	payment, err := scanPayment(row, op)
	if err == nil {
		return payment, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	// CAS не сработал: различаем отсутствующий платеж и уже решенный.
	var current models.PaymentStatus
	checkQuery := `SELECT status FROM payments WHERE id = $1`
	if scanErr := s.DB.QueryRowContext(ctx, checkQuery, id).Scan(&current); scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrPaymentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, scanErr)
	}
	return nil, fmt.Errorf("%s: %w", op, ErrAlreadyDecided)
}

// HasVerifiedPayment сообщает, существует ли подтвержденный платеж
// для пары (email студента, id предмета).
func (s *Storage) HasVerifiedPayment(ctx context.Context, email string, subjectID int) (bool, error) {
	const op = "storage.HasVerifiedPayment"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM payments
			      WHERE student_email = $1 AND subject_id = $2 AND status = $3
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, email, subjectID, models.StatusVerified).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

func scanPayment(row *sql.Row, op string) (*models.Payment, error) {
	var p models.Payment
	var decidedBy sql.NullString
	var decidedAt sql.NullTime
	if err := row.Scan(&p.ID, &p.StudentEmail, &p.SubjectID, &p.Amount, &p.TransactionID,
		&p.Status, &decidedBy, &decidedAt, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, sql.ErrNoRows)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if decidedBy.Valid {
		p.DecidedBy = &decidedBy.String
	}
	if decidedAt.Valid {
		p.DecidedAt = &decidedAt.Time
	}
	return &p, nil
}

func collectPayments(rows *sql.Rows, op string) ([]*models.Payment, error) {
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		var decidedBy sql.NullString
		var decidedAt sql.NullTime
		if err := rows.Scan(&p.ID, &p.StudentEmail, &p.SubjectID, &p.Amount, &p.TransactionID,
			&p.Status, &decidedBy, &decidedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if decidedBy.Valid {
			p.DecidedBy = &decidedBy.String
		}
		if decidedAt.Valid {
			p.DecidedAt = &decidedAt.Time
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
