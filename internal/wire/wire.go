package wire

import (
	"context"
	"net/http"
	"time"

	"yamdb/internal/adaptor"
	"yamdb/internal/data/repository"
	"yamdb/internal/usecase"
	"yamdb/pkg/mailer"
	"yamdb/pkg/middleware"
	"yamdb/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const requestTimeout = 30 * time.Second

// App menyimpan semua dependencies
type App struct {
	Router      *chi.Mux
	RateLimiter *middleware.RateLimiter
}

// Run starts background maintenance until ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	go a.RateLimiter.Cleanup(ctx)
}

// Wiring builds services, handlers and the router.
func Wiring(repo *repository.Repository, config *utils.Config, sender mailer.Sender, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, sender, logger)
	handler := adaptor.NewHandler(service, logger)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: config.RateLimit.RPS,
		Burst:             config.RateLimit.Burst,
	}, logger.With(zap.String("middleware", "ratelimit")))

	router := setupRouter(handler, repo, config, limiter, logger)

	return &App{
		Router:      router,
		RateLimiter: limiter,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	limiter *middleware.RateLimiter,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(chimw.StripSlashes)
	r.Use(chimw.Timeout(requestTimeout))

	authn := middleware.Auth(repo.User, config.JWT.Secret, logger)
	admin := middleware.Admin(logger)

	r.Route("/api/v1", func(r chi.Router) {
		wireAuth(r, handler.Auth, limiter)
		wireUser(r, handler.User, authn, admin)
		wireCategory(r, handler.Category, authn, admin)
		wireGenre(r, handler.Genre, authn, admin)
		r.Route("/titles", func(r chi.Router) {
			wireTitle(r, handler.Title, authn, admin)
			r.Route("/{title_id}/reviews", func(r chi.Router) {
				wireReview(r, handler.Review, authn)
				r.Route("/{review_id}/comments", func(r chi.Router) {
					wireComment(r, handler.Comment, authn)
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, http.StatusMethodNotAllowed, false, "Method not allowed", nil, nil)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}

// middlewareFunc matches what chi's Use and With accept.
type middlewareFunc = func(http.Handler) http.Handler
