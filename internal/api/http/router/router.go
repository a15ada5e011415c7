package router

import (
	"net/http"

	"github.com/equiptrack/equiptrack-server/internal/api/http/handler"
	"github.com/equiptrack/equiptrack-server/internal/api/http/middleware"
	"github.com/equiptrack/equiptrack-server/internal/logger"
	"github.com/equiptrack/equiptrack-server/internal/model"
	"github.com/equiptrack/equiptrack-server/internal/registry"
	"github.com/equiptrack/equiptrack-server/internal/service"
)

// Router assembles the HTTP surface: public auth routes plus the
// token-gated entity route sets.
type Router struct {
	registry     *registry.Registry
	tokenService *service.Token
	ctxMgr       model.ContextManager
	logger       *logger.Logger
}

// New creates a Router over the constructed services.
func New(reg *registry.Registry, tokenService *service.Token, ctxMgr model.ContextManager, logger *logger.Logger) *Router {
	return &Router{
		registry:     reg,
		tokenService: tokenService,
		ctxMgr:       ctxMgr,
		logger:       logger,
	}
}

// Register builds the handler tree. Specific public patterns win over
// the protected /api/ subtree, so signup and login stay reachable
// without a token.
func (r *Router) Register() http.Handler {
	authHandler := handler.NewAuth(r.registry.Users, r.tokenService, r.ctxMgr, r.logger)

	protected := http.NewServeMux()
	protected.HandleFunc("GET /api/auth/me", authHandler.Me)
	handler.NewEntity[model.User](r.registry.Users, r.logger).Register(protected, "users")
	handler.NewEntity[model.Country](r.registry.Countries, r.logger).Register(protected, "countries")
	handler.NewEntity[model.State](r.registry.States, r.logger).Register(protected, "states")
	handler.NewEntity[model.City](r.registry.Cities, r.logger).Register(protected, "cities")
	handler.NewEntity[model.Headquarter](r.registry.Headquarters, r.logger).Register(protected, "headquarters")
	handler.NewEntity[model.Area](r.registry.Areas, r.logger).Register(protected, "areas")
	handler.NewEntity[model.Provider](r.registry.Providers, r.logger).Register(protected, "providers")
	handler.NewEntity[model.IPS](r.registry.IPS, r.logger).Register(protected, "ips")
	handler.NewEntity[model.Curriculum](r.registry.Curriculums, r.logger).Register(protected, "curriculums")

	authenticate := middleware.NewAuthenticate(r.tokenService, r.ctxMgr, r.logger)

	root := http.NewServeMux()
	root.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	root.HandleFunc("POST /api/auth/login", authHandler.Login)
	root.Handle("/api/", authenticate.Handle(protected))

	logging := middleware.NewLogging(r.logger)
	return logging.Handle(root)
}
