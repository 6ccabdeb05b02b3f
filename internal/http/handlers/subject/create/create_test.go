package create

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/study-notes-market/internal/models"
	"github.com/magabrotheeeer/study-notes-market/internal/services/catalog"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, name, description string, price float64, file io.Reader) (*models.Subject, error) {
	args := m.Called(ctx, name, description, price, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subject), args.Error(1)
}

func buildForm(t *testing.T, fields map[string]string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if fileContent != nil {
		part, err := writer.CreateFormFile("file", "notes.pdf")
		require.NoError(t, err)
		_, err = part.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validFields := map[string]string{
		"name":        "Математический анализ",
		"description": "Конспект лекций за первый семестр",
		"price":       "500",
	}

	tests := []struct {
		name           string
		fields         map[string]string
		fileContent    []byte
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешное создание",
			fields:      validFields,
			fileContent: []byte("%PDF-1.4 fake content"),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "Математический анализ",
					"Конспект лекций за первый семестр", 500.0, mock.Anything).
					Return(&models.Subject{ID: 1, Name: "Математический анализ", Price: 500}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":1`,
		},
		{
			name: "некорректная цена",
			fields: map[string]string{
				"name":        "Физика",
				"description": "Конспект",
				"price":       "abc",
			},
			fileContent:    []byte("%PDF"),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"invalid price"`,
		},
		{
			name: "пустое название",
			fields: map[string]string{
				"name":        "",
				"description": "Конспект",
				"price":       "500",
			},
			fileContent:    []byte("%PDF"),
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field Name is a required field`,
		},
		{
			name:           "файл отсутствует",
			fields:         validFields,
			fileContent:    nil,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"pdf file is required"`,
		},
		{
			name:           "пустой файл",
			fields:         validFields,
			fileContent:    []byte{},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"pdf file is empty"`,
		},
		{
			name:        "цена не совпадает с ценой каталога",
			fields:      validFields,
			fileContent: []byte("%PDF"),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "Математический анализ",
					"Конспект лекций за первый семестр", 500.0, mock.Anything).
					Return(nil, catalog.ErrWrongPrice)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"price does not match catalog price"`,
		},
		{
			name:        "ошибка сервиса",
			fields:      validFields,
			fileContent: []byte("%PDF"),
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, "Математический анализ",
					"Конспект лекций за первый семестр", 500.0, mock.Anything).
					Return(nil, errors.New("storage error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"failed to create subject"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			body, contentType := buildForm(t, tt.fields, tt.fileContent)
			req := httptest.NewRequest(http.MethodPost, "/subjects", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
