// Package access реализует HTTP-обработчик проверки доступа к предмету.
//
// Доступ открыт, если у текущего студента есть хотя бы один подтвержденный
// платеж по предмету. Результат вычисляется заново при каждом запросе,
// поэтому отзыв решения администратором виден сразу.
package access

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-notes-market/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-notes-market/internal/http/response"
	"github.com/magabrotheeeer/study-notes-market/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы на проверку доступа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс проверки доступа к предмету.
type Service interface {
	HasAccess(ctx context.Context, email string, subjectID int) (bool, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить доступ к предмету
// @Description Сообщает, открыт ли текущему студенту доступ к файлу предмета.
// @Tags Subjects
// @Produce  json
// @Param id path int true "ID предмета"
// @Success 200 {object} map[string]any "Статус доступа"
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /subjects/{id}/access [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subject.access"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		log.Error("invalid id format", slog.String("id", idStr))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	email, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || email == "" {
		log.Error("email not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	hasAccess, err := h.service.HasAccess(r.Context(), email, id)
	if err != nil {
		log.Error("failed to check access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to check access"))
		return
	}

	log.Info("access checked",
		slog.Int("subject_id", id),
		slog.Bool("has_access", hasAccess))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subject_id": id,
		"has_access": hasAccess,
	}))
}
