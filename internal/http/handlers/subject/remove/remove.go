// Package remove реализует HTTP-обработчик удаления предмета из каталога.
//
// ID предмета передается query-параметром id. Вместе с метаданными удаляется
// PDF-файл из объектного хранилища. Доступно только администратору.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-notes-market/internal/http/response"
	"github.com/magabrotheeeer/study-notes-market/internal/lib/sl"
	"github.com/magabrotheeeer/study-notes-market/internal/services/catalog"
)

// Handler обрабатывает HTTP-запросы на удаление предмета.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления предмета.
type Service interface {
	Remove(ctx context.Context, id int) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить предмет
// @Description Удаляет предмет и его PDF-файл. Платежи по предмету сохраняются. Только для администратора.
// @Tags Subjects
// @Produce  json
// @Param id query int true "ID предмета"
// @Success 200 {object} map[string]any "Предмет удален"
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Предмет не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при удалении"
// @Security BearerAuth
// @Router /subjects [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subject.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	idStr := r.URL.Query().Get("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		log.Error("invalid id format", slog.String("id", idStr))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	if err := h.service.Remove(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrSubjectNotFound) {
			log.Error("subject not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subject not found"))
			return
		}
		log.Error("failed to remove subject", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to remove subject"))
		return
	}

	log.Info("subject removed", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted_id": id,
	}))
}
