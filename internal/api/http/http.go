package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jekabolt/grbpwr-dashboard/internal/dependency"
	"github.com/jekabolt/grbpwr-dashboard/internal/ratelimit"
	"github.com/jekabolt/grbpwr-dashboard/log"
)

// Config is the configuration for the http server
type Config struct {
	Port           string        `mapstructure:"port"`
	Address        string        `mapstructure:"address"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Server is the http server
type Server struct {
	hs      *http.Server
	c       *Config
	dash    dependency.Dashboard
	jwtAuth *jwtauth.JWTAuth
	limiter *ratelimit.Limiter
	done    chan struct{}
}

// New creates a new server. The admin routes are only mounted when jwtAuth
// is set; limiter may be nil to disable refresh rate limiting.
func New(c *Config, dash dependency.Dashboard, jwtAuth *jwtauth.JWTAuth, limiter *ratelimit.Limiter) *Server {
	return &Server{
		c:       c,
		dash:    dash,
		jwtAuth: jwtAuth,
		limiter: limiter,
		done:    make(chan struct{}),
	}
}

// Done returns a channel that is closed when the http server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Handler returns the API router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(log.RequestLogger(slog.Default()))
	r.Use(middleware.Recoverer)
	if s.c.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.c.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(r *http.Request, origin string) bool {
			return isOriginAllowed(origin, s.c.AllowedOrigins)
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.healthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.getDashboard)
		r.Get("/facts", s.getFacts)
		r.Get("/date-range", s.getDateRange)

		if s.jwtAuth != nil {
			r.Route("/admin", func(r chi.Router) {
				if s.limiter != nil {
					r.Use(s.limiter.Middleware(func(w http.ResponseWriter, r *http.Request) {
						writeError(w, r, errRateLimited)
					}))
				}
				r.Use(jwtauth.Verifier(s.jwtAuth))
				r.Use(jwtauth.Authenticator)
				r.Post("/refresh", s.refresh)
			})
		}
	})

	return r
}

// Start starts the server
func (s *Server) Start(ctx context.Context) error {
	listenerAddr := fmt.Sprintf("%s:%s", s.c.Address, s.c.Port)
	s.hs = &http.Server{
		Addr:              listenerAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Default().InfoContext(ctx, "grbpwr-dashboard new listener",
			slog.String("addr", "http://"+listenerAddr),
		)
		err := s.hs.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			slog.Default().InfoContext(ctx, "http server returned")
		} else {
			slog.Default().ErrorContext(ctx, "http server exited with an error",
				slog.String("err", err.Error()),
			)
		}
		close(s.done)
	}()

	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.hs == nil {
		return nil
	}
	return s.hs.Shutdown(ctx)
}

func isOriginAllowed(origin string, allowedOrigins []string) bool {
	// Always allow localhost origins
	if strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "https://localhost:") {
		return true
	}
	for _, allowedOrigin := range allowedOrigins {
		if allowedOrigin == "*" || origin == allowedOrigin {
			return true
		}
	}
	return false
}
