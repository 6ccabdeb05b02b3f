// Package decide реализует HTTP-обработчик решения администратора по платежу.
//
// Администратор переводит заявку из pending в verified или rejected.
// Решение необратимо: повторная попытка по уже решенному платежу
// возвращает 409 Conflict.
package decide

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

// Request — входные данные решения по платежу.
type Request struct {
	PaymentID int    `json:"paymentId" validate:"required,gt=0"`
	Status    string `json:"status" validate:"required,oneof=verified rejected"`
}

// Handler управляет HTTP-запросами на решение по платежу.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики решения по платежу.
type Service interface {
	Decide(ctx context.Context, paymentID int, status models.PaymentStatus, decidedBy string) (*models.Payment, error)
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
// @Summary Принять решение по платежу
// @Description Переводит платеж в verified или rejected. Выигрывает первое решение. Только для администратора.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "ID платежа и новый статус"
// @Success 200 {object} map[string]any "Обновленный платеж"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Платеж не найден"
// @Failure 409 {object} response.ErrorResponse "Платеж уже решен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /payments [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.decide"

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
	log.Info("request body decoded", slog.Int("payment_id", req.PaymentID))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	admin, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || admin == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	decided, err := h.service.Decide(r.Context(), req.PaymentID, models.PaymentStatus(req.Status), admin)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrPaymentNotFound):
			log.Error("payment not found", slog.Int("payment_id", req.PaymentID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("payment not found"))
		case errors.Is(err, payment.ErrAlreadyDecided):
			log.Error("payment already decided", slog.Int("payment_id", req.PaymentID))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("payment already decided"))
		default:
			log.Error("failed to decide payment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to decide payment"))
		}
		return
	}

	log.Info("payment decided",
		slog.Int("id", decided.ID),
		slog.String("status", string(decided.Status)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"payment": decided,
	}))
}
