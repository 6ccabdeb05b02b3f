// Package payment содержит бизнес-логику жизненного цикла платежей:
// создание заявки студентом, решение администратора и правило доступа
// к файлу предмета (есть хотя бы один подтвержденный платеж).
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/study-notes-market/internal/lib/sl"
	"github.com/magabrotheeeer/study-notes-market/internal/models"
	"github.com/magabrotheeeer/study-notes-market/internal/rabbitmq"
	"github.com/magabrotheeeer/study-notes-market/internal/storage/repository"
)

var (
	// ErrSubjectNotFound возвращается, когда платеж отправлен на несуществующий предмет.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrPaymentNotFound возвращается, когда платеж с таким id не существует.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrAlreadyDecided возвращается при повторном решении по платежу.
	ErrAlreadyDecided = errors.New("payment already decided")
	// ErrWrongAmount возвращается, когда сумма не совпадает с ценой предмета.
	ErrWrongAmount = errors.New("amount does not match subject price")
)

// PaymentRepository определяет методы для работы с платежами в хранилище.
type PaymentRepository interface {
	// CreatePayment добавляет платеж в статусе pending и возвращает созданную запись.
	CreatePayment(ctx context.Context, payment models.Payment) (*models.Payment, error)
	// ListPaymentsByEmail возвращает платежи студента, новые первыми.
	ListPaymentsByEmail(ctx context.Context, email string) ([]*models.Payment, error)
	// ListAllPayments возвращает все платежи, новые первыми.
	ListAllPayments(ctx context.Context) ([]*models.Payment, error)
	// UpdatePaymentStatus атомарно переводит платеж в терминальный статус.
	UpdatePaymentStatus(ctx context.Context, id int, status models.PaymentStatus, decidedBy string) (*models.Payment, error)
	// HasVerifiedPayment сообщает о существовании подтвержденного платежа для пары.
	HasVerifiedPayment(ctx context.Context, email string, subjectID int) (bool, error)
}

// SubjectProvider возвращает предмет для проверки цены и текста уведомления.
type SubjectProvider interface {
	GetSubjectByID(ctx context.Context, id int) (*models.Subject, error)
}

// Publisher публикует события о решениях по платежам.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service реализует бизнес-логику платежей.
type Service struct {
	repo      PaymentRepository
	subjects  SubjectProvider
	publisher Publisher
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo PaymentRepository, subjects SubjectProvider, publisher Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		subjects:  subjects,
		publisher: publisher,
		log:       log,
	}
}

// Submit создает заявку об оплате в статусе pending.
// Сумма проверяется на сервере против цены предмета, клиентскому вводу
// не доверяем. Повторные заявки на тот же предмет разрешены.
func (s *Service) Submit(ctx context.Context, email string, subjectID int, amount float64, transactionID string) (*models.Payment, error) {
	subject, err := s.subjects.GetSubjectByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrSubjectNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, err
	}
	if amount != subject.Price {
		return nil, ErrWrongAmount
	}

	payment, err := s.repo.CreatePayment(ctx, models.Payment{
		StudentEmail:  email,
		SubjectID:     subjectID,
		Amount:        amount,
		TransactionID: transactionID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("created new payment",
		slog.Int("id", payment.ID),
		slog.Int("subject_id", subjectID))
	return payment, nil
}

// Decide переводит платеж из pending в verified или rejected.
// Выигрывает первое решение: повторная попытка возвращает ErrAlreadyDecided.
// О решении публикуется событие для почтового уведомления; ошибка публикации
// не отменяет уже зафиксированное решение и только логируется.
func (s *Service) Decide(ctx context.Context, paymentID int, status models.PaymentStatus, decidedBy string) (*models.Payment, error) {
	if !status.Terminal() {
		return nil, fmt.Errorf("invalid decision status: %q", status)
	}

	payment, err := s.repo.UpdatePaymentStatus(ctx, paymentID, status, decidedBy)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPaymentNotFound):
			return nil, ErrPaymentNotFound
		case errors.Is(err, repository.ErrAlreadyDecided):
			return nil, ErrAlreadyDecided
		}
		return nil, err
	}

	s.log.Info("payment decided",
		slog.Int("id", payment.ID),
		slog.String("status", string(payment.Status)),
		slog.String("decided_by", decidedBy))

	event := models.PaymentDecisionEvent{
		PaymentID:    payment.ID,
		StudentEmail: payment.StudentEmail,
		SubjectID:    payment.SubjectID,
		Amount:       payment.Amount,
		Status:       payment.Status,
	}
	// Предмет мог быть удален после создания платежа, имя — best effort.
	if subject, err := s.subjects.GetSubjectByID(ctx, payment.SubjectID); err == nil {
		event.SubjectName = subject.Name
	}
	if err := s.publisher.Publish(rabbitmq.PaymentRoutingKey, event); err != nil {
		s.log.Warn("failed to publish payment decision event", sl.Err(err))
	}

	return payment, nil
}

// ListForUser возвращает платежи студента, новые первыми.
func (s *Service) ListForUser(ctx context.Context, email string) ([]*models.Payment, error) {
	return s.repo.ListPaymentsByEmail(ctx, email)
}

// ListAll возвращает все платежи, новые первыми.
func (s *Service) ListAll(ctx context.Context) ([]*models.Payment, error) {
	return s.repo.ListAllPayments(ctx)
}

// HasAccess сообщает, открыт ли студенту доступ к предмету: true, если
// существует хотя бы один подтвержденный платеж для пары (email, предмет).
// Результат не кешируется и вычисляется заново при каждом вызове.
// Отсутствие предмета не является ошибкой — доступа просто нет.
func (s *Service) HasAccess(ctx context.Context, email string, subjectID int) (bool, error) {
	return s.repo.HasVerifiedPayment(ctx, email, subjectID)
}
