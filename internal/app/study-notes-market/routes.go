// Package studynotesmarket предоставляет маршруты для основного приложения.
package studynotesmarket

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/study-notes-market/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/study-notes-market/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/study-notes-market/internal/http/handlers/health"
	paymentdecide "github.com/magabrotheeeer/study-notes-market/internal/http/handlers/payment/decide"
	paymentlist "github.com/magabrotheeeer/study-notes-market/internal/http/handlers/payment/list"
	paymentsubmit "github.com/magabrotheeeer/study-notes-market/internal/http/handlers/payment/submit"
	subjectaccess "github.com/magabrotheeeer/study-notes-market/internal/http/handlers/subject/access"
	subjectcreate "github.com/magabrotheeeer/study-notes-market/internal/http/handlers/subject/create"
	subjectdownload "github.com/magabrotheeeer/study-notes-market/internal/http/handlers/subject/download"
	subjectlist "github.com/magabrotheeeer/study-notes-market/internal/http/handlers/subject/list"
	subjectremove "github.com/magabrotheeeer/study-notes-market/internal/http/handlers/subject/remove"
	"github.com/magabrotheeeer/study-notes-market/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/study-notes-market/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/study-notes-market/internal/services/catalog"
	paymentservice "github.com/magabrotheeeer/study-notes-market/internal/services/payment"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.Service,
	catalogService *catalogservice.Service,
	paymentService *paymentservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/subjects", subjectlist.New(logger, catalogService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/payments", paymentsubmit.New(logger, paymentService).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, paymentService).ServeHTTP)
			r.Get("/subjects/{id}/access", subjectaccess.New(logger, paymentService).ServeHTTP)
			r.Get("/subjects/{id}/download", subjectdownload.New(logger, catalogService, paymentService).ServeHTTP)

			// Операции администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(logger))

				r.Post("/subjects", subjectcreate.New(logger, catalogService).ServeHTTP)
				r.Delete("/subjects", subjectremove.New(logger, catalogService).ServeHTTP)
				r.Patch("/payments", paymentdecide.New(logger, paymentService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
