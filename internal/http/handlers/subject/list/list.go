// Package list реализует HTTP-обработчик списка предметов каталога.
// Список публичный, авторизация не требуется.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-notes-market/internal/http/response"
	"github.com/magabrotheeeer/study-notes-market/internal/lib/sl"
	"github.com/magabrotheeeer/study-notes-market/internal/models"
)

// Handler обрабатывает HTTP-запросы на получение списка предметов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	List(ctx context.Context) ([]*models.Subject, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список предметов
// @Description Возвращает все предметы каталога, новые первыми. Доступно без авторизации.
// @Tags Subjects
// @Produce  json
// @Success 200 {object} map[string]any "Список предметов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subjects [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subject.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subjects, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list subjects", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list subjects"))
		return
	}

	log.Info("subjects listed", slog.Int("count", len(subjects)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":    len(subjects),
		"subjects": subjects,
	}))
}
