package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"vault-backend/application/services"
	"vault-backend/interfaces/http/rest/handlers"
	"vault-backend/interfaces/http/rest/middleware"
	"vault-backend/pkg/auth"
	"vault-backend/pkg/common"
)

// Router creates and configures the HTTP router
type Router struct {
	service    *services.VaultService
	validator  *auth.JWTValidator
	enableCORS bool
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(service *services.VaultService, validator *auth.JWTValidator, enableCORS bool, logger *zap.Logger) *Router {
	return &Router{
		service:    service,
		validator:  validator,
		enableCORS: enableCORS,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.vault.dev"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Vault-Identity", "X-Vault-Name"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.healthCheck)

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator))

		vaultHandler := handlers.NewVaultHandler(rt.service, rt.logger)
		r.Get("/context", vaultHandler.GetContext)
		r.Post("/context", vaultHandler.SubmitContext)
		r.Get("/projects", vaultHandler.ListProjects)
		r.Post("/projects", vaultHandler.AddProject)
		r.Get("/user", vaultHandler.GetUser)
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
