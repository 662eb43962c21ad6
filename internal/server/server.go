package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"hometracker/internal/auth"
	"hometracker/internal/config"
	"hometracker/internal/http/handlers"
	"hometracker/internal/middleware"
	"hometracker/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) *Server {
	tokens := auth.NewTokenManager(cfg.SecretKey, cfg.TokenTTL)
	handler := NewRouter(store, tokens, cfg.CORSOrigins)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// NewRouter assembles the chi router with every endpoint attached.
func NewRouter(store storage.Store, tokens *auth.TokenManager, corsOrigins []string) http.Handler {
	health := handlers.NewHealthHandler(time.Now())
	authHandler := handlers.NewAuthHandler(store, tokens)
	users := handlers.NewUsersHandler(store)
	categories := handlers.NewCategoriesHandler(store)
	expenses := handlers.NewExpensesHandler(store)
	toBuy := handlers.NewToBuyHandler(store)
	settings := handlers.NewSettingsHandler(store)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", health.Root)
	r.Get("/health", health.Health)

	r.Route("/api", func(api chi.Router) {
		api.Post("/login", authHandler.Login)

		api.Group(func(priv chi.Router) {
			priv.Use(middleware.Authenticate(tokens, store))

			priv.Get("/me", authHandler.Me)
			priv.Get("/users", users.List)

			priv.Get("/categories", categories.List)
			priv.Post("/categories", categories.Create)

			priv.Get("/expenses", expenses.List)
			priv.Post("/expenses", expenses.Create)
			priv.Delete("/expenses/{id}", expenses.Delete)

			priv.Get("/to-buy", toBuy.List)
			priv.Post("/to-buy", toBuy.Create)
			priv.Patch("/to-buy/{id}/purchase", toBuy.Purchase)
			priv.Delete("/to-buy/{id}", toBuy.Delete)

			priv.Get("/settings", settings.Get)

			priv.Group(func(admin chi.Router) {
				admin.Use(middleware.RequireAdmin)

				admin.Post("/users", users.Create)
				admin.Delete("/users/{id}", users.Delete)
				admin.Delete("/categories/{id}", categories.Delete)
				admin.Put("/settings", settings.Update)
			})
		})
	})

	return r
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
