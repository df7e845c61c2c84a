package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/restolink/api/internal/config"
	"github.com/restolink/api/internal/handler"
	"github.com/restolink/api/internal/ledger"
	mw "github.com/restolink/api/internal/middleware"
	"github.com/restolink/api/internal/notify"
	"github.com/restolink/api/internal/storage"
	"github.com/restolink/api/internal/store"
	"github.com/restolink/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
func New(cfg *config.Config, st *store.Store, dispatcher *notify.Dispatcher, uploader *storage.Uploader, hub *ws.Hub) chi.Router {
	led := ledger.New(st, st, st, st)

	r := chi.NewRouter()

	// Standard middleware
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(st, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// Telegram webhook (public; Telegram posts button clicks here)
	callbackHandler := handler.NewCallbackHandler(led, dispatcher, hub)
	callbackHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/departments/{dept}", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		menuHandler := handler.NewMenuHandler(led)
		r.Route("/menu", menuHandler.RegisterRoutes)

		orderHandler := handler.NewOrderHandler(led, dispatcher, hub)
		orderHandler.RegisterRoutes(r)

		billHandler := handler.NewBillHandler(led)
		billHandler.RegisterRoutes(r)

		statsHandler := handler.NewStatsHandler(led, dispatcher)
		statsHandler.RegisterRoutes(r)

		notifyHandler := handler.NewNotifyHandler(led, dispatcher, uploader)
		notifyHandler.RegisterRoutes(r)
	})

	return r
}
