package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"chitchat/internal/blob"
	"chitchat/internal/config"
	"chitchat/internal/domain"
	"chitchat/internal/feed"
	"chitchat/internal/media"
	"chitchat/internal/security"
	"chitchat/internal/service"
	"chitchat/internal/ws"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Cfg      *config.Config
	Users    domain.UserRepository
	Messages domain.MessageRepository
	Blobs    *blob.DiskStore
	Hub      *feed.Hub
	Tokens   *security.TokenService
	Hasher   *security.PasswordHasher
}

// NewRouter constructs the main HTTP router and wires routes, services, and
// middleware.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Services
	authSvc := service.NewAuthService(d.Users, d.Tokens, d.Hasher)
	directory := service.NewDirectory(d.Users)
	coordinator := service.NewSendCoordinator(d.Messages, d.Hub)
	pipeline := media.NewPipeline(d.Blobs)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": d.Cfg.AppName + " API",
			"version": "1.0.0",
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", handleSignup(authSvc))
			r.Post("/login", handleLogin(authSvc))
		})

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(d.Tokens, d.Users))

			r.Post("/auth/logout", handleLogout())
			r.Get("/auth/me", handleMe())

			r.Route("/users", func(r chi.Router) {
				r.Get("/", handleListUsers(directory))
				r.Get("/{userID}", handleGetUser(directory))
			})

			r.Route("/conversations/{peerID}", func(r chi.Router) {
				r.Get("/messages", handleListMessages(d.Messages, directory, d.Cfg.SnapshotLimit))
				r.Post("/messages", handleSendMessage(coordinator, directory))
			})

			r.Post("/uploads", handleUpload(pipeline))
		})
	})

	// Blob serving; URLs resolved by the pipeline point here.
	r.Get("/uploads/{category}/{filename}", handleServeBlob(d.Blobs))

	// WebSocket endpoint
	r.Get("/ws", ws.MakeHandler(ws.Deps{
		Hub:            d.Hub,
		Tokens:         d.Tokens,
		Users:          d.Users,
		Coordinator:    coordinator,
		Directory:      directory,
		AllowedOrigins: d.Cfg.CORSOrigins,
	}))

	return r
}

// writeJSON is a small helper to send JSON responses.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		status := http.StatusBadRequest
		switch authErr.Kind {
		case domain.AuthInvalidCredential:
			status = http.StatusUnauthorized
		case domain.AuthEmailInUse:
			status = http.StatusConflict
		}
		writeJSON(w, status, map[string]string{"error": authErr.Error(), "kind": string(authErr.Kind)})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrMissingMedia),
		errors.Is(err, domain.ErrSelfChat),
		errors.Is(err, domain.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}
