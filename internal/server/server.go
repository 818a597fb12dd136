// Package server renders the portfolio and drives the theme, reveal and
// typewriter state for each visitor.
package server

import (
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/kv"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/typewriter"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

type Options struct {
	Config    *config.Config
	Store     kv.Backend
	Portfolio *content.Portfolio
	Logger    *slog.Logger
	// Clock drives typewriter streams; nil means wall time.
	Clock typewriter.Clock
	// Registry receives the site's collectors; nil creates a private one.
	Registry *prometheus.Registry
}

type Server struct {
	cfg       *config.Config
	store     kv.Backend
	portfolio *content.Portfolio
	script    *typewriter.Script
	clock     typewriter.Clock
	logger    *slog.Logger
	metrics   *metrics.Metrics
	registry  *prometheus.Registry
	ack       *contact.Acknowledger
	salt      string
	origins   []string
}

func New(opts Options) (*Server, error) {
	if opts.Config == nil || opts.Store == nil || opts.Portfolio == nil {
		return nil, errors.New("server: config, store and portfolio are required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = typewriter.RealClock{}
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
		opts.Registry.MustRegister(collectors.NewGoCollector())
	}

	script, err := typewriter.Compile(typewriter.Config{
		Script:   opts.Portfolio.Typewriter,
		Interval: opts.Config.TypewriterInterval,
		Pause:    opts.Config.TypewriterPause,
	})
	if err != nil {
		return nil, err
	}

	salt, err := generateSalt()
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:       opts.Config,
		store:     opts.Store,
		portfolio: opts.Portfolio,
		script:    script,
		clock:     opts.Clock,
		logger:    opts.Logger,
		metrics:   metrics.New(opts.Registry),
		registry:  opts.Registry,
		ack:       contact.NewAcknowledger(contact.AckWindow),
		salt:      salt,
		origins:   originHosts(opts.Config.AllowedOrigins),
	}, nil
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"reveal": func(visible bool, shown, hidden string) string {
			if visible {
				return shown
			}
			return hidden
		},
		"safeCSS": func(s string) template.CSS { return template.CSS(s) },
	}).ParseFS(templateFS, "templates/*.html")
}

// Engine builds the gin router.
func (s *Server) Engine() (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	assets, err := fs.Sub(assetFS, "assets")
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "HX-Request", "HX-Target", "HX-Current-URL"},
			ExposeHeaders:    []string{"HX-Trigger"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(s.visitorMiddleware())
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/assets", http.FS(assets))
	r.Static("/static", s.cfg.StaticDir)
	r.GET("/resume.pdf", s.handleResume)

	r.GET("/", s.handleIndex)
	r.GET("/privacy", s.handlePrivacy)

	r.GET("/theme", s.handleTheme)
	r.POST("/theme/mode", s.handleToggleMode)
	r.POST("/theme/accent", s.handleSetAccent)

	r.GET("/typewriter", s.handleTypewriter)
	r.GET("/live", s.handleLive)

	r.POST("/contact", s.handleContact)
	r.GET("/contact/status", s.handleContactStatus)
	r.GET("/contact/form", s.handleContactForm)

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	return r, nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// originHosts turns configured origins into the host patterns the
// websocket handshake matches against.
func originHosts(origins []string) []string {
	var hosts []string
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		} else {
			hosts = append(hosts, o)
		}
	}
	return hosts
}
