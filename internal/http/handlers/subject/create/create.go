// Package create реализует HTTP-обработчик добавления нового предмета в каталог.
//
// Handler принимает multipart-запрос с названием, описанием, ценой и PDF-файлом,
// валидирует поля и делегирует загрузку файла и запись метаданных сервису каталога.
// Доступно только администратору.
package create

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/study-notes-market/internal/http/response"
	"github.com/magabrotheeeer/study-notes-market/internal/lib/sl"
	"github.com/magabrotheeeer/study-notes-market/internal/models"
	"github.com/magabrotheeeer/study-notes-market/internal/services/catalog"
)

// maxUploadSize ограничивает размер multipart-запроса (32 МБ).
const maxUploadSize = 32 << 20

// Request — поля формы нового предмета.
type Request struct {
	Name        string  `validate:"required,min=1,max=200"`
	Description string  `validate:"required,min=1"`
	Price       float64 `validate:"required,gt=0"`
}

// Handler управляет HTTP-запросами на создание предметов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания предмета.
type Service interface {
	Create(ctx context.Context, name, description string, price float64, file io.Reader) (*models.Subject, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить новый предмет
// @Description Загружает PDF-файл конспекта и создает предмет в каталоге. Только для администратора.
// @Tags Subjects
// @Accept  multipart/form-data
// @Produce  json
// @Param name formData string true "Название предмета"
// @Param description formData string true "Описание предмета"
// @Param price formData number true "Цена предмета"
// @Param file formData file true "PDF-файл конспекта"
// @Success 201 {object} map[string]any "Созданный предмет"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма, ошибка валидации или пустой файл"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании предмета"
// @Security BearerAuth
// @Router /subjects [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subject.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid multipart form"))
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		log.Error("invalid price format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid price"))
		return
	}

	req := Request{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated", slog.String("name", req.Name))

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error("pdf file is missing", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("pdf file is required"))
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warn("failed to close uploaded file", sl.Err(err))
		}
	}()
	if header.Size == 0 {
		log.Error("pdf file is empty")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("pdf file is empty"))
		return
	}

	subject, err := h.service.Create(r.Context(), req.Name, req.Description, req.Price, file)
	if err != nil {
		if errors.Is(err, catalog.ErrWrongPrice) {
			log.Error("price does not match catalog price", slog.Float64("price", req.Price))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("price does not match catalog price"))
			return
		}
		log.Error("failed to create subject", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create subject"))
		return
	}

	log.Info("subject created", slog.Int("id", subject.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subject": subject,
	}))
}
