package models

import "time"

// PaymentStatus описывает состояние платежа. Жизненный цикл:
// pending -> verified | rejected, терминальные состояния не меняются.
type PaymentStatus string

const (
	// StatusPending — платеж создан студентом и ждет решения администратора.
	StatusPending PaymentStatus = "pending"
	// StatusVerified — администратор подтвердил платеж, доступ открыт.
	StatusVerified PaymentStatus = "verified"
	// StatusRejected — администратор отклонил платеж.
	StatusRejected PaymentStatus = "rejected"
)

// Valid сообщает, входит ли статус в закрытый набор.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// Terminal сообщает, является ли статус терминальным.
func (s PaymentStatus) Terminal() bool {
	return s == StatusVerified || s == StatusRejected
}

// Payment представляет заявку студента об оплате предмета:
// идентификатор транзакции вводится вручную и не проверяется
// ни по какому платежному шлюзу — решение принимает администратор.
type Payment struct {
	ID            int           `json:"id"`
	StudentEmail  string        `json:"student_email"`
	SubjectID     int           `json:"subject_id"`
	Amount        float64       `json:"amount"`
	TransactionID string        `json:"transaction_id"`
	Status        PaymentStatus `json:"status"`
	DecidedBy     *string       `json:"decided_by,omitempty"`
	DecidedAt     *time.Time    `json:"decided_at,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// PaymentDecisionEvent — сообщение о решении по платежу,
// публикуемое в RabbitMQ для отправки письма студенту.
type PaymentDecisionEvent struct {
	PaymentID    int           `json:"payment_id"`
	StudentEmail string        `json:"student_email"`
	SubjectID    int           `json:"subject_id"`
	SubjectName  string        `json:"subject_name,omitempty"`
	Amount       float64       `json:"amount"`
	Status       PaymentStatus `json:"status"`
}
