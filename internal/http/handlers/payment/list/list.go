// Package list реализует HTTP-обработчик списка платежей.
//
// Студент видит только свои платежи. С параметром all=true администратор
// получает очередь всех платежей; для остальных ролей параметр недоступен.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-notes-market/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-notes-market/internal/http/response"
	"github.com/magabrotheeeer/study-notes-market/internal/lib/sl"
	"github.com/magabrotheeeer/study-notes-market/internal/models"
)

// Handler обрабатывает HTTP-запросы на получение списка платежей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списков платежей.
type Service interface {
	ListForUser(ctx context.Context, email string) ([]*models.Payment, error)
	ListAll(ctx context.Context) ([]*models.Payment, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список платежей
// @Description Возвращает платежи текущего студента. С параметром all=true администратор видит все платежи.
// @Tags Payments
// @Produce  json
// @Param all query bool false "Все платежи (только администратор)"
// @Success 200 {object} map[string]any "Список платежей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован или недостаточно прав"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	role, _ := r.Context().Value(middlewarectx.Role).(models.Role)

	var (
		payments []*models.Payment
		err      error
	)
	if r.URL.Query().Get("all") == "true" {
		if role != models.RoleAdmin {
			log.Error("admin role required for all payments", slog.String("role", string(role)))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("admin role required"))
			return
		}
		payments, err = h.service.ListAll(r.Context())
	} else {
		payments, err = h.service.ListForUser(r.Context(), email)
	}
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list payments"))
		return
	}

	log.Info("payments listed", slog.Int("count", len(payments)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":    len(payments),
		"payments": payments,
	}))
}
