// Package download реализует HTTP-обработчик получения ссылки на PDF предмета.
//
// Ссылка выдается администратору всегда, студенту — только при наличии
// подтвержденного платежа по предмету. Иначе возвращается 403 Forbidden.
package download

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/study-notes-market/internal/http/middlewarectx"
	"github.com/magabrotheeeer/study-notes-market/internal/http/response"
	"github.com/magabrotheeeer/study-notes-market/internal/lib/sl"
	"github.com/magabrotheeeer/study-notes-market/internal/models"
	"github.com/magabrotheeeer/study-notes-market/internal/services/catalog"
)

// Handler обрабатывает HTTP-запросы на скачивание PDF предмета.
type Handler struct {
	log      *slog.Logger
	catalog  CatalogService
	payments PaymentService
}

// CatalogService описывает интерфейс получения предмета.
type CatalogService interface {
	Get(ctx context.Context, id int) (*models.Subject, error)
}

// PaymentService описывает интерфейс проверки доступа к предмету.
type PaymentService interface {
	HasAccess(ctx context.Context, email string, subjectID int) (bool, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, catalogService CatalogService, paymentService PaymentService) *Handler {
	return &Handler{
		log:      log,
		catalog:  catalogService,
		payments: paymentService,
	}
}

// ServeHTTP godoc
// @Summary Получить ссылку на PDF предмета
// @Description Возвращает ссылку на файл конспекта. Студенту требуется подтвержденный платеж.
// @Tags Subjects
// @Produce  json
// @Param id path int true "ID предмета"
// @Success 200 {object} map[string]any "Ссылка на PDF"
// @Failure 400 {object} response.ErrorResponse "Некорректный id"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Доступ не оплачен"
// @Failure 404 {object} response.ErrorResponse "Предмет не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /subjects/{id}/download [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subject.download"

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
	role, _ := r.Context().Value(middlewarectx.Role).(models.Role)

	if role != models.RoleAdmin {
		hasAccess, err := h.payments.HasAccess(r.Context(), email, id)
		if err != nil {
			log.Error("failed to check access", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to check access"))
			return
		}
		if !hasAccess {
			log.Error("access denied", slog.Int("subject_id", id))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied: payment not verified"))
			return
		}
	}

	subject, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrSubjectNotFound) {
			log.Error("subject not found", slog.Int("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("subject not found"))
			return
		}
		log.Error("failed to get subject", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get subject"))
		return
	}

	log.Info("download link issued", slog.Int("subject_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"subject_id": id,
		"pdf_url":    subject.PdfURL,
	}))
}
