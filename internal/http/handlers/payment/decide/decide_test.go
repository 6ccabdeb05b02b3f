package decide

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/study-notes-market/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-notes-market/internal/models"
	"github.com/magabrotheeeer/study-notes-market/internal/services/payment"
)

// MockService реализует интерфейс decide.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Decide(ctx context.Context, paymentID int, status models.PaymentStatus, decidedBy string) (*models.Payment, error) {
	args := m.Called(ctx, paymentID, status, decidedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func TestDecideHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "подтверждение платежа",
			body: `{"paymentId":10,"status":"verified"}`,
			setupMock: func(m *MockService) {
				m.On("Decide", mock.Anything, 10, models.StatusVerified, "admin@example.com").
					Return(&models.Payment{ID: 10, Status: models.StatusVerified}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"verified"`,
		},
		{
			name: "отклонение платежа",
			body: `{"paymentId":11,"status":"rejected"}`,
			setupMock: func(m *MockService) {
				m.On("Decide", mock.Anything, 11, models.StatusRejected, "admin@example.com").
					Return(&models.Payment{ID: 11, Status: models.StatusRejected}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"rejected"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid request body"`,
		},
		{
			name:           "недопустимый статус",
			body:           `{"paymentId":10,"status":"pending"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Status has not allowed value`,
		},
		{
			name: "платеж не найден",
			body: `{"paymentId":404,"status":"verified"}`,
			setupMock: func(m *MockService) {
				m.On("Decide", mock.Anything, 404, models.StatusVerified, "admin@example.com").
					Return(nil, payment.ErrPaymentNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"payment not found"`,
		},
		{
			name: "платеж уже решен",
			body: `{"paymentId":12,"status":"rejected"}`,
			setupMock: func(m *MockService) {
				m.On("Decide", mock.Anything, 12, models.StatusRejected, "admin@example.com").
					Return(nil, payment.ErrAlreadyDecided)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"payment already decided"`,
		},
		{
			name: "ошибка сервиса",
			body: `{"paymentId":13,"status":"verified"}`,
			setupMock: func(m *MockService) {
				m.On("Decide", mock.Anything, 13, models.StatusVerified, "admin@example.com").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"failed to decide payment"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPatch, "/payments", strings.NewReader(tt.body))
			ctx := context.WithValue(req.Context(), middlewarectx.User, "admin@example.com")
			ctx = context.WithValue(ctx, middlewarectx.Role, models.RoleAdmin)
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
