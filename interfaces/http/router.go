package http

import (
	"encoding/json"
	"net/http"

	"phonebook-backend/infrastructure/config"
	"phonebook-backend/interfaces/http/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	schema  *graphql.Schema
	session func(next http.Handler) http.Handler
	cfg     *config.Config
	logger  *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	schema *graphql.Schema,
	session func(next http.Handler) http.Handler,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		schema:  schema,
		session: session,
		cfg:     cfg,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	// CORS configuration
	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.healthCheck)

	// GraphQL endpoint; the session middleware resolves the current account
	// before execution
	graphqlHandler := &relay.Handler{Schema: rt.schema}
	router.Group(func(r chi.Router) {
		r.Use(rt.session)
		r.Method(http.MethodPost, "/", graphqlHandler)
		r.Method(http.MethodPost, "/graphql", graphqlHandler)
	})

	return router
}

// healthCheck reports process liveness
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}
