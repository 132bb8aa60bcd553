package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/yonatan12121/TMS/internal/api"
	apiMiddleware "github.com/yonatan12121/TMS/internal/api/middleware"
	"github.com/yonatan12121/TMS/internal/service"
	"github.com/yonatan12121/TMS/internal/service/auth"
)

// services are the dependencies the HTTP layer is built from.
type services struct {
	accounts      service.AccountService
	tasks         service.TaskService
	reports       service.ReportService
	categories    service.CategoryService
	notifications service.NotificationService
	jwt           auth.JWTService
}

// newRouter creates the application router with all routes and middleware.
func newRouter(svc services, requestTimeout time.Duration, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if requestTimeout > 0 {
		r.Use(middleware.Timeout(requestTimeout))
	}
	r.Use(apiMiddleware.NewTraceMiddleware(log))

	authHandler := api.NewAuthHandler(svc.accounts, log)
	taskHandler := api.NewTaskHandler(svc.tasks, svc.reports, log)
	categoryHandler := api.NewCategoryHandler(svc.categories, log)
	notificationHandler := api.NewNotificationHandler(svc.notifications, log)
	authMiddleware := apiMiddleware.NewAuthMiddleware(svc.jwt, log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", api.Health)

		r.Post("/auth/register", authHandler.Register)
		r.Get("/auth/verify/{token}", authHandler.VerifyEmail)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/forgot-password", authHandler.ForgotPassword)
		r.Post("/auth/reset-password", authHandler.ResetPassword)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/profile", authHandler.Profile)

			r.Route("/tasks", func(r chi.Router) {
				r.Post("/", taskHandler.CreateTask)
				r.Get("/", taskHandler.ListTasks)
				r.Get("/filter", taskHandler.FilterTasks)
				r.Get("/reports", taskHandler.Report)

				r.Route("/{taskID}", func(r chi.Router) {
					r.Get("/", taskHandler.GetTask)
					r.Put("/", taskHandler.UpdateTask)
					r.Delete("/", taskHandler.DeleteTask)
					r.Put("/assign/{userID}", taskHandler.AssignTask)
					r.Put("/share/{userID}", taskHandler.ShareTask)
					r.Post("/complete", taskHandler.CompleteTask)
					r.Post("/review", taskHandler.ReviewTask)
					r.Post("/comments", taskHandler.AddComment)
					r.Get("/comments", taskHandler.ListComments)
				})
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", categoryHandler.CreateCategory)
				r.Get("/", categoryHandler.ListCategories)
				r.Put("/{categoryID}", categoryHandler.UpdateCategory)
				r.Delete("/{categoryID}", categoryHandler.DeleteCategory)
			})

			r.Get("/notifications", notificationHandler.ListNotifications)
			r.Patch("/notifications/{id}/read", notificationHandler.MarkRead)
		})
	})

	r.Get("/health", api.Health)

	return r
}
