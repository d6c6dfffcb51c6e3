package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/backofficehq/admin-backend/internal/auth"
	"github.com/backofficehq/admin-backend/internal/sucursale"
	"github.com/backofficehq/admin-backend/internal/transport/middleware"
	"github.com/backofficehq/admin-backend/internal/transport/swagger"
	"github.com/backofficehq/admin-backend/internal/user"

	"github.com/backofficehq/admin-backend/internal/role"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, roleHandler *role.Handler, userHandler *user.Handler, sucursaleHandler *sucursale.Handler, files http.FileSystem, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Public file server for stored avatars
	if files != nil {
		router.Handle("/storage/*", http.StripPrefix("/storage/", http.FileServer(files)))
	}

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/register", authHandler.Register)
				sr.Post("/login", authHandler.Login)

				sr.Group(func(pr chi.Router) {
					pr.Use(authHandler.AuthMiddleware)
					pr.Post("/logout", authHandler.Logout)
					pr.Post("/refresh", authHandler.RefreshToken)
					pr.Get("/me", authHandler.Me)
				})
			})

			// Protected resource routes
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				if roleHandler != nil {
					pr.Route("/roles", func(rr chi.Router) {
						rr.Get("/", roleHandler.Index)
						rr.Post("/", roleHandler.Store)
						rr.Get("/{id}", roleHandler.Show)
						rr.Put("/{id}", roleHandler.Update)
						rr.Patch("/{id}", roleHandler.Update)
						rr.Delete("/{id}", roleHandler.Destroy)
					})
				}

				if userHandler != nil {
					pr.Route("/users", func(ur chi.Router) {
						ur.Get("/", userHandler.Index)
						ur.Post("/", userHandler.Store)
						ur.Get("/{id}", userHandler.Show)
						ur.Put("/{id}", userHandler.Update)
						ur.Patch("/{id}", userHandler.Update)
						ur.Delete("/{id}", userHandler.Destroy)
					})
				}

				if sucursaleHandler != nil {
					pr.Get("/sucursales", sucursaleHandler.Index)
				}
			})
		}
	})
}
