package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/joestump/studyshelf/internal/logging"
	"github.com/joestump/studyshelf/internal/store"
	"github.com/joestump/studyshelf/internal/submission"
	"github.com/joestump/studyshelf/internal/validation"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Logger         *zap.Logger
	Pipeline       *submission.Pipeline
	ResourceStore  *store.ResourceStore
	TagStore       *store.TagStore
	LikeStore      *store.LikeStore
	FavouriteStore *store.FavouriteStore
	CommentStore   *store.CommentStore
	UserStore      *store.UserStore
	CORSOrigins    []string
}

// NewRouter assembles the chi router with middleware and all routes.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	v := validation.New()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, MessageResponse{Message: "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(jsonContentType)

		registerResourceRoutes(r, &resourcesAPIHandler{
			pipeline:  deps.Pipeline,
			resources: deps.ResourceStore,
			tags:      deps.TagStore,
			logger:    logger.Named("api.resources"),
		})
		registerEngagementRoutes(r, &engagementAPIHandler{
			likes:      deps.LikeStore,
			favourites: deps.FavouriteStore,
			logger:     logger.Named("api.engagement"),
		})
		registerCommentRoutes(r, &commentsAPIHandler{
			comments:  deps.CommentStore,
			validator: v,
			logger:    logger.Named("api.comments"),
		})
		registerUserRoutes(r, &usersAPIHandler{
			users:     deps.UserStore,
			validator: v,
			logger:    logger.Named("api.users"),
		})
	})

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
