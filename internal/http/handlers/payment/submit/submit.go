// Package submit реализует HTTP-обработчик подачи заявки об оплате.
//
// Студент отправляет JSON с ID предмета, суммой и идентификатором транзакции
// из платежной системы. Заявка создается в статусе pending и ждет решения
// администратора.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/study-notes-market/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-notes-market/internal/http/response"
	"github.com/magabrotheeeer/study-notes-market/internal/lib/sl"
	"github.com/magabrotheeeer/study-notes-market/internal/models"
	"github.com/magabrotheeeer/study-notes-market/internal/services/payment"
)

// Request — входные данные заявки об оплате.
type Request struct {
	SubjectID     int     `json:"subjectId" validate:"required,gt=0"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	TransactionID string  `json:"transactionId" validate:"required,min=1"`
}

// Handler управляет HTTP-запросами на подачу заявки об оплате.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики подачи платежа.
type Service interface {
	Submit(ctx context.Context, email string, subjectID int, amount float64, transactionID string) (*models.Payment, error)
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
// @Summary Подать заявку об оплате
// @Description Создает заявку об оплате предмета в статусе pending. Сумма сверяется с ценой предмета.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные заявки об оплате"
// @Success 201 {object} map[string]any "Созданная заявка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, ошибка валидации или неверная сумма"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Предмет не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при создании заявки"
// @Security BearerAuth
// @Router /payments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Int("subject_id", req.SubjectID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	created, err := h.service.Submit(r.Context(), email, req.SubjectID, req.Amount, req.TransactionID)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrSubjectNotFound):
			log.Error("subject not found", slog.Int("subject_id", req.SubjectID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subject not found"))
		case errors.Is(err, payment.ErrWrongAmount):
			log.Error("amount does not match subject price", slog.Float64("amount", req.Amount))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("amount does not match subject price"))
		default:
			log.Error("failed to submit payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to submit payment"))
		}
		return
	}

	log.Info("payment submitted", slog.Int("id", created.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"payment": created,
	}))
}
