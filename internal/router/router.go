// Package router assembles the HTTP routes and middleware stack.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/bookmarkapi/bookmark-api/internal/handler"
	"github.com/bookmarkapi/bookmark-api/internal/middleware"
)

// Deps are the collaborators the router wires into routes.
type Deps struct {
	Logger         *zap.Logger
	Guard          *middleware.Guard
	Auth           *handler.AuthHandler
	Users          *handler.UserHandler
	Bookmarks      *handler.BookmarkHandler
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// New returns the application's root handler.
func New(d Deps) http.Handler {
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	origins := d.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", d.Auth.HandleSignup)
		r.Post("/signin", d.Auth.HandleSignin)
	})

	r.Group(func(r chi.Router) {
		r.Use(d.Guard.Require)

		r.Get("/users/me", d.Users.HandleMe)
		r.Patch("/users", d.Users.HandleEdit)

		r.Get("/bookmarks", d.Bookmarks.HandleList)
		r.Post("/bookmarks", d.Bookmarks.HandleCreate)
		r.Get("/bookmarks/{id}", d.Bookmarks.HandleGet)
		r.Patch("/bookmarks/{id}", d.Bookmarks.HandleEdit)
		r.Delete("/bookmarks/{id}", d.Bookmarks.HandleDelete)
	})

	return r
}
