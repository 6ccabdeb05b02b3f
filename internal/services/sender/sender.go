// Package sender отправляет студентам почтовые уведомления
// о решениях администратора по их платежам.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	smtplib "github.com/magabrotheeeer/study-notes-market/internal/lib/smtp"
	"github.com/magabrotheeeer/study-notes-market/internal/lib/sl"
	"github.com/magabrotheeeer/study-notes-market/internal/models"
)

// Transport описывает SMTP-транспорт для отправки писем.
type Transport interface {
	Connect() (smtplib.Client, error)
	SMTPUser() string
}

// Service формирует и отправляет письма о решениях по платежам.
type Service struct {
	transport Transport
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(transport Transport, log *slog.Logger) *Service {
	return &Service{
		transport: transport,
		log:       log,
	}
}

// SendPaymentDecision обрабатывает событие о решении по платежу
// и отправляет письмо студенту.
func (s *Service) SendPaymentDecision(body []byte) error {
	var event models.PaymentDecisionEvent
	if err := json.Unmarshal(body, &event); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subjectName := event.SubjectName
	if subjectName == "" {
		subjectName = fmt.Sprintf("предмет #%d", event.SubjectID)
	}

	var subject, bodyText string
	switch event.Status {
	case models.StatusVerified:
		subject = "Оплата подтверждена"
		bodyText = fmt.Sprintf("Здравствуйте!\n\nВаша оплата %.2f за %q подтверждена.\nМатериалы уже доступны в вашем личном кабинете.",
			event.Amount, subjectName)
	case models.StatusRejected:
		subject = "Оплата отклонена"
		bodyText = fmt.Sprintf("Здравствуйте!\n\nВашу оплату %.2f за %q не удалось подтвердить.\nПроверьте идентификатор транзакции и отправьте заявку повторно.",
			event.Amount, subjectName)
	default:
		return fmt.Errorf("unexpected payment status in event: %q", event.Status)
	}

	return s.sendEmail([]string{event.StudentEmail}, subject, bodyText)
}

func (s *Service) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.SMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() {
		_ = client.Close()
	}()

	if err = client.Mail(s.transport.SMTPUser()); err != nil {
		s.log.Error("failed to set mail sender", sl.Err(err))
		return fmt.Errorf("failed to set mail sender: %w", err)
	}
	for _, addr := range to {
		if err = client.Rcpt(addr); err != nil {
			s.log.Error("failed to set recipient", sl.Err(err))
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get write closer", sl.Err(err))
		return fmt.Errorf("failed to get write closer: %w", err)
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write message", sl.Err(err))
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close write closer", sl.Err(err))
		return fmt.Errorf("failed to close write closer: %w", err)
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return fmt.Errorf("failed to quit SMTP client: %w", err)
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
