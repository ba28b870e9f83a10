package api

import (
	"log/slog"
	"net/http"

	"github.com/KirkDiggler/quizroom/internal/identity"
	"github.com/KirkDiggler/quizroom/internal/services/notification"
	"github.com/KirkDiggler/quizroom/internal/services/room"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
)

// HandlerError is returned for configuration mistakes
type HandlerError string

func (e HandlerError) Error() string {
	return string(e)
}

const (
	ErrNilConfig              HandlerError = "config cannot be nil"
	ErrNilRoomService         HandlerError = "room service cannot be nil"
	ErrNilNotificationService HandlerError = "notification service cannot be nil"
	ErrNilResolver            HandlerError = "identity resolver cannot be nil"
)

// Config holds configuration for the HTTP API
type Config struct {
	RoomService         room.Service
	NotificationService notification.Service
	Identity            identity.Resolver

	// WebSocket serves GET /ws; the route is omitted when nil
	WebSocket http.Handler

	// AllowedOrigins feeds the CORS policy
	AllowedOrigins []string

	Logger *slog.Logger
}

// Handler serves the REST surface next to the websocket gateway
type Handler struct {
	rooms         room.Service
	notifications notification.Service
	identity      identity.Resolver
	websocket     http.Handler
	origins       []string
	validate      *validator.Validate
	log           *slog.Logger
}

// New creates a new API handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.RoomService == nil {
		return nil, ErrNilRoomService
	}
	if cfg.NotificationService == nil {
		return nil, ErrNilNotificationService
	}
	if cfg.Identity == nil {
		return nil, ErrNilResolver
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Handler{
		rooms:         cfg.RoomService,
		notifications: cfg.NotificationService,
		identity:      cfg.Identity,
		websocket:     cfg.WebSocket,
		origins:       origins,
		validate:      validator.New(),
		log:           logger.With("handler", "api"),
	}, nil
}

// Routes builds the router
func (h *Handler) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	mux.Get("/healthz", h.Health)

	if h.websocket != nil {
		// The gateway authenticates itself so browsers can pass the token as a query parameter
		mux.Method(http.MethodGet, "/ws", h.websocket)
	}

	mux.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Get("/me/room", h.GetActiveRoom)

		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", h.CreateRoom)
			r.Get("/invite/{code}", h.GetRoomByInviteCode)
			r.Get("/{roomId}", h.GetRoom)
			r.Get("/{roomId}/players", h.GetPlayers)
			r.Get("/{roomId}/leaderboard", h.GetLeaderboard)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.ListNotifications)
			r.Post("/{notificationId}/read", h.MarkRead)
		})
	})

	return mux
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "ok")
}
