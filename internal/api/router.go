package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.MetricsMiddleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errRouteNotFound)
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Get("/health", s.HealthCheckHandler)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
	r.Get("/ws", s.ServeWsHandler)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.ListUsersHandler)
		r.Post("/", s.CreateUserHandler)
		r.Get("/search", s.SearchUsersHandler)
		r.Get("/paginate", s.PaginateUsersHandler)
		r.Get("/{id:[0-9]+}", s.GetUserHandler)
		r.Put("/{id:[0-9]+}", s.UpdateUserHandler)
		r.Delete("/{id:[0-9]+}", s.DeleteUserHandler)
		r.Post("/{id:[0-9]+}/upload", s.UploadProfilePictureHandler)
	})

	r.Post("/files/upload", s.UploadFileHandler)
	r.Post("/login", s.LoginHandler)
	r.Post("/loginuser", s.LoginUserHandler)
	r.Get("/external-data", s.ExternalDataHandler)
	r.Get("/cached-users", s.CachedUsersHandler)
	r.Get("/stream-data", s.StreamDataHandler)

	r.Group(func(r chi.Router) {
		r.Use(s.AuthMiddleware)
		r.Get("/protected", s.ProtectedHandler)
	})

	return r
}
