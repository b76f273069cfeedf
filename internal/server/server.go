package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eco-abhi/hearth/internal/ai"
	"github.com/eco-abhi/hearth/internal/handler"
	"github.com/eco-abhi/hearth/internal/images"
	"github.com/eco-abhi/hearth/internal/middleware"
	"github.com/eco-abhi/hearth/internal/push"
	"github.com/eco-abhi/hearth/internal/store"
	ws "github.com/eco-abhi/hearth/internal/websocket"
)

// Config carries everything beyond the database the server needs wired in.
type Config struct {
	AI              *ai.Client // nil when no API key is configured
	Images          images.Config
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string
	DigestHour      int
}

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	memberH      *handler.MemberHandler
	reminderH    *handler.ReminderHandler
	recipeH      *handler.RecipeHandler
	shoppingH    *handler.ShoppingHandler
	exerciseH    *handler.ExerciseHandler
	aiH          *handler.AIHandler
	authH        *handler.AuthHandler
	pushH        *handler.PushHandler
	sessionStore *store.SessionStore
	memberStore  *store.MemberStore
	pushStore    *store.PushStore
	rateLimiter  *middleware.RateLimiter
	pushService  *push.Service
	notifier     *push.Notifier
	logger       *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	memberStore := store.NewMemberStore(db)
	reminderStore := store.NewReminderStore(db)
	recipeStore := store.NewRecipeStore(db)
	shoppingStore := store.NewShoppingStore(db)
	exerciseStore := store.NewExerciseStore(db)
	sessionStore := store.NewSessionStore(db)
	pushStore := store.NewPushStore(db)

	uploader := images.NewUploader(cfg.Images)

	// The AI handler stays registered when no client is configured so
	// clients get a clear 503 instead of a 404.
	var recommender handler.Recommender
	if cfg.AI != nil {
		recommender = cfg.AI
	}

	var pushSvc *push.Service
	var notifier *push.Notifier
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubscriber)
		notifier = push.NewNotifier(pushSvc, pushStore, reminderStore, memberStore, cfg.DigestHour, logger.With("component", "push"))
	}

	return &Server{
		db:           db,
		hub:          hub,
		memberH:      handler.NewMemberHandler(memberStore),
		reminderH:    handler.NewReminderHandler(reminderStore, memberStore, hub),
		recipeH:      handler.NewRecipeHandler(recipeStore, uploader, recommender, hub),
		shoppingH:    handler.NewShoppingHandler(shoppingStore, hub),
		exerciseH:    handler.NewExerciseHandler(exerciseStore, memberStore, hub),
		aiH:          handler.NewAIHandler(cfg.AI, memberStore, exerciseStore),
		authH:        handler.NewAuthHandler(sessionStore, memberStore),
		pushH:        handler.NewPushHandler(pushSvc, pushStore),
		sessionStore: sessionStore,
		memberStore:  memberStore,
		pushStore:    pushStore,
		rateLimiter:  middleware.NewRateLimiter(),
		pushService:  pushSvc,
		notifier:     notifier,
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// PushStore returns the push store for cleanup tasks.
func (s *Server) PushStore() *store.PushStore {
	return s.pushStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Notifier returns the reminder push notifier, nil when push is not configured.
func (s *Server) Notifier() *push.Notifier {
	return s.notifier
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.Handle("GET /metrics", promhttp.Handler())

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.memberStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	logged := middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
	return middleware.Metrics(logged)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Auth routes that require authentication
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("GET /api/auth/me", s.authH.Me)

	// Member API routes
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.HandleFunc("POST /api/members", s.memberH.Create)
	mux.HandleFunc("GET /api/members/{id}", s.memberH.Get)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)
	mux.HandleFunc("PUT /api/members/sort", s.memberH.UpdateSortOrder)

	// PIN routes
	mux.HandleFunc("POST /api/members/{id}/pin", s.memberH.SetPIN)
	mux.HandleFunc("DELETE /api/members/{id}/pin", s.memberH.ClearPIN)

	// Reminder API routes
	mux.HandleFunc("POST /api/reminders", s.reminderH.Create)
	mux.HandleFunc("GET /api/reminders", s.reminderH.List)
	mux.HandleFunc("GET /api/reminders/leaderboard", s.reminderH.Leaderboard)
	mux.HandleFunc("GET /api/reminders/{id}", s.reminderH.Get)
	mux.HandleFunc("PUT /api/reminders/{id}", s.reminderH.Update)
	mux.HandleFunc("DELETE /api/reminders/{id}", s.reminderH.Delete)

	// Recipe API routes
	mux.HandleFunc("POST /api/recipes", s.recipeH.Create)
	mux.HandleFunc("GET /api/recipes", s.recipeH.List)
	mux.HandleFunc("POST /api/recipes/recommend", s.recipeH.Recommend)
	mux.HandleFunc("GET /api/recipes/{id}", s.recipeH.Get)
	mux.HandleFunc("PUT /api/recipes/{id}", s.recipeH.Update)
	mux.HandleFunc("DELETE /api/recipes/{id}", s.recipeH.Delete)
	mux.HandleFunc("POST /api/recipes/{id}/image", s.recipeH.UploadImage)

	// Shopping API routes
	mux.HandleFunc("POST /api/stores", s.shoppingH.CreateStore)
	mux.HandleFunc("GET /api/stores", s.shoppingH.ListStores)
	mux.HandleFunc("PUT /api/stores/{id}", s.shoppingH.UpdateStore)
	mux.HandleFunc("DELETE /api/stores/{id}", s.shoppingH.DeleteStore)
	mux.HandleFunc("GET /api/stores/{storeID}/items", s.shoppingH.ListItems)
	mux.HandleFunc("POST /api/stores/{storeID}/items", s.shoppingH.CreateItem)
	mux.HandleFunc("POST /api/stores/{storeID}/clear-checked", s.shoppingH.ClearChecked)
	mux.HandleFunc("PUT /api/items/{id}", s.shoppingH.UpdateItem)
	mux.HandleFunc("DELETE /api/items/{id}", s.shoppingH.DeleteItem)
	mux.HandleFunc("POST /api/items/{id}/toggle", s.shoppingH.ToggleItem)
	mux.HandleFunc("POST /api/items/{id}/move", s.shoppingH.MoveItem)

	// Exercise API routes
	mux.HandleFunc("GET /api/members/{id}/exercises", s.exerciseH.List)
	mux.HandleFunc("GET /api/members/{id}/exercises/library", s.exerciseH.Library)
	mux.HandleFunc("POST /api/members/{id}/exercises", s.exerciseH.Create)
	mux.HandleFunc("PUT /api/exercises/{id}", s.exerciseH.Update)
	mux.HandleFunc("DELETE /api/exercises/{id}", s.exerciseH.Delete)
	mux.HandleFunc("POST /api/exercises/{id}/schedule", s.exerciseH.Schedule)
	mux.HandleFunc("DELETE /api/exercises/schedule/{id}", s.exerciseH.Unschedule)
	mux.HandleFunc("PUT /api/exercises/schedule/{id}/completed", s.exerciseH.SetCompleted)
	mux.HandleFunc("POST /api/exercises/bulk-update", s.exerciseH.BulkUpdate)
	mux.HandleFunc("POST /api/exercises/bulk-delete", s.exerciseH.BulkDelete)

	// AI API routes
	mux.HandleFunc("POST /api/ai/extract-recipe", s.aiH.ExtractRecipe)
	mux.HandleFunc("POST /api/ai/generate-exercises", s.aiH.GenerateExercises)

	// Push notification API routes
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
