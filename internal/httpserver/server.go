// Package httpserver assembles the storefront router: middleware stack, embedded assets,
// the page route and the per-view fragment routes.
package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Gowri0016/Creator/internal/events"
	custommw "github.com/Gowri0016/Creator/internal/httpserver/middleware"
	"github.com/Gowri0016/Creator/internal/httpserver/ui"
	"github.com/Gowri0016/Creator/internal/observability"
	"github.com/Gowri0016/Creator/internal/view"
)

const (
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
	defaultIdleTimeout  = 60 * time.Second
)

var (
	errRegistryRequired = errors.New("httpserver: view registry is required")
	errHubRequired      = errors.New("httpserver: event hub is required")
)

// Config holds runtime options for the storefront HTTP server.
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Registry     *view.Registry
	Hub          *events.Hub
	Logger       *zap.Logger
	TemplatesDir string
	Dev          bool
	KeepAlive    time.Duration
}

// New constructs the HTTP server with its middleware stack and embedded assets.
func New(cfg Config) (*http.Server, error) {
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, err
	}
	// WriteTimeout is enforced per route by the timeout middleware; event streams are exempt.
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       durationOr(cfg.ReadTimeout, defaultReadTimeout),
		IdleTimeout:       durationOr(cfg.IdleTimeout, defaultIdleTimeout),
	}, nil
}

// NewHandler builds the router. Tests drive it through httptest.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Registry == nil {
		return nil, errRegistryRequired
	}
	if cfg.Hub == nil {
		return nil, errHubRequired
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer, err := ui.NewRenderer(cfg.TemplatesDir, cfg.Dev)
	if err != nil {
		return nil, err
	}
	staticContent, err := ui.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("httpserver: embed static: %w", err)
	}

	handlers := ui.NewHandlers(ui.Dependencies{
		Views:     cfg.Registry,
		Events:    cfg.Hub,
		Renderer:  renderer,
		KeepAlive: cfg.KeepAlive,
	})

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
	router.Use(chimw.RealIP)
	router.Use(observability.TraceMiddleware)
	router.Use(observability.RequestLogger(logger))
	router.Use(chimw.Recoverer)
	router.Use(custommw.HTMX())

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(staticContent))))

	router.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))
		r.Use(chimw.Timeout(durationOr(cfg.WriteTimeout, defaultWriteTimeout)))
		r.Get("/", handlers.Home)
	})

	router.Route("/v/{"+custommw.ViewParam+"}", func(r chi.Router) {
		r.Use(custommw.LoadView(cfg.Registry))

		r.Get("/events", handlers.Events)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Compress(5))
			r.Use(chimw.Timeout(durationOr(cfg.WriteTimeout, defaultWriteTimeout)))

			r.Post("/filter/category", handlers.FilterCategory)
			r.Post("/filter/search", handlers.FilterSearch)

			r.Get("/cart", handlers.CartSummary)
			r.Post("/cart/{itemID}", handlers.CartAdd)
			r.Post("/cart/{itemID}/toggle", handlers.CartToggle)
			r.Post("/wishlist/{itemID}", handlers.WishlistToggle)

			r.Get("/carousel", handlers.Carousel)
			r.Post("/carousel/{index}", handlers.CarouselSelect)

			r.Get("/lightbox", handlers.Lightbox)
			r.Post("/lightbox/open/{imageID}", handlers.LightboxOpen)
			r.Post("/lightbox/next", handlers.LightboxNext)
			r.Post("/lightbox/prev", handlers.LightboxPrev)
			r.Post("/lightbox/close", handlers.LightboxClose)

			r.Post("/header/{panel}", handlers.HeaderToggle)
			r.Post("/newsletter", handlers.Newsletter)

			r.Post("/unmount", handlers.Unmount)
			r.Delete("/", handlers.Unmount)
		})
	})

	return router, nil
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
