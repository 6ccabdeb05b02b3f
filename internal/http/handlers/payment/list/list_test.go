package list

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
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListForUser(ctx context.Context, email string) ([]*models.Payment, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *MockService) ListAll(ctx context.Context) ([]*models.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		email          string
		role           models.Role
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "студент видит свои платежи",
			url:   "/payments",
			email: "student@example.com",
			role:  models.RoleStudent,
			setupMock: func(m *MockService) {
				m.On("ListForUser", mock.Anything, "student@example.com").
					Return([]*models.Payment{{ID: 1, StudentEmail: "student@example.com"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":1`,
		},
		{
			name:  "администратор видит все платежи",
			url:   "/payments?all=true",
			email: "admin@example.com",
			role:  models.RoleAdmin,
			setupMock: func(m *MockService) {
				m.On("ListAll", mock.Anything).
					Return([]*models.Payment{{ID: 1}, {ID: 2}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"count":2`,
		},
		{
			name:           "студенту недоступен общий список",
			url:            "/payments?all=true",
			email:          "student@example.com",
			role:           models.RoleStudent,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"admin role required"`,
		},
		{
			name:  "ошибка сервиса",
			url:   "/payments",
			email: "student@example.com",
			role:  models.RoleStudent,
			setupMock: func(m *MockService) {
				m.On("ListForUser", mock.Anything, "student@example.com").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"failed to list payments"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			ctx := context.WithValue(req.Context(), middlewarectx.User, tt.email)
			ctx = context.WithValue(ctx, middlewarectx.Role, tt.role)
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
