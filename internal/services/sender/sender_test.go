package sender

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	smtplib "github.com/magabrotheeeer/study-notes-market/internal/lib/smtp"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtplib.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtplib.Client), args.Error(1)
}

func (m *MockTransport) SMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func setupHappyPath(t *MockTransport) {
	mockClient := new(MockSMTPClient)
	mockWriter := new(MockSMTPWriter)

	t.On("SMTPUser").Return("noreply@example.com")
	t.On("Connect").Return(mockClient, nil).Once()
	mockClient.On("Mail", "noreply@example.com").Return(nil).Once()
	mockClient.On("Rcpt", "student@example.com").Return(nil).Once()
	mockClient.On("Data").Return(mockWriter, nil).Once()
	mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
	mockWriter.On("Close").Return(nil).Once()
	mockClient.On("Quit").Return(nil).Once()
	mockClient.On("Close").Return(nil).Once()
}

func TestSendPaymentDecision(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockTransport)
		expectedError bool
		errorMessage  string
	}{
		{
			name:          "оплата подтверждена",
			body:          []byte(`{"payment_id":10,"student_email":"student@example.com","subject_id":5,"subject_name":"Математика","amount":500,"status":"verified"}`),
			setupMocks:    setupHappyPath,
			expectedError: false,
		},
		{
			name:          "оплата отклонена",
			body:          []byte(`{"payment_id":11,"student_email":"student@example.com","subject_id":5,"subject_name":"Математика","amount":500,"status":"rejected"}`),
			setupMocks:    setupHappyPath,
			expectedError: false,
		},
		{
			name:          "предмет удален, имя подставляется из id",
			body:          []byte(`{"payment_id":12,"student_email":"student@example.com","subject_id":5,"amount":500,"status":"verified"}`),
			setupMocks:    setupHappyPath,
			expectedError: false,
		},
		{
			name:          "некорректный JSON",
			body:          []byte(`invalid json`),
			setupMocks:    func(_ *MockTransport) {},
			expectedError: true,
			errorMessage:  "error unmarshalling message",
		},
		{
			name:          "неожиданный статус в событии",
			body:          []byte(`{"payment_id":13,"student_email":"student@example.com","subject_id":5,"amount":500,"status":"pending"}`),
			setupMocks:    func(_ *MockTransport) {},
			expectedError: true,
			errorMessage:  "unexpected payment status",
		},
		{
			name: "ошибка подключения к SMTP",
			body: []byte(`{"payment_id":14,"student_email":"student@example.com","subject_id":5,"amount":500,"status":"verified"}`),
			setupMocks: func(t *MockTransport) {
				t.On("SMTPUser").Return("noreply@example.com")
				t.On("Connect").Return(nil, errors.New("connection error")).Once()
			},
			expectedError: true,
			errorMessage:  "connection error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			tt.setupMocks(transport)

			service := New(transport, newNoopLogger())
			err := service.SendPaymentDecision(tt.body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
			} else {
				assert.NoError(t, err)
			}

			transport.AssertExpectations(t)
		})
	}
}
