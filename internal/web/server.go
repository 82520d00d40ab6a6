// Package web serves the converter over HTTP: an upload page, a plain text
// API, the conversion history and Prometheus metrics.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog"

	"github.com/carlosrabelo/unifi2icx/internal/converter"
	"github.com/carlosrabelo/unifi2icx/internal/db"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	// DownloadName is the file name offered for downloaded configurations
	DownloadName = "ruckus_config.txt"

	defaultHistory = 20
	pageHistory    = 10
	bodyLimit      = 8 * 1024 * 1024
)

// HistoryStore records conversion attempts
type HistoryStore interface {
	Record(c *db.Conversion) error
	Recent(limit int) ([]db.Conversion, error)
}

// Server is the HTTP surface of the converter
type Server struct {
	app     *fiber.App
	conv    *converter.Converter
	store   HistoryStore
	metrics *metrics
	log     zerolog.Logger
}

// NewServer builds the fiber app. store may be nil to disable history.
func NewServer(conv *converter.Converter, store HistoryStore, logger zerolog.Logger) *Server {
	templates, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(templates), ".html")

	s := &Server{
		conv:    conv,
		store:   store,
		metrics: newMetrics(),
		log:     logger.With().Str("component", "web").Logger(),
	}
	s.app = fiber.New(fiber.Config{
		Views:                 engine,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Get("/", s.handleIndex)
	s.app.Post("/", s.handleIndexConvert)
	s.app.Post("/convert", s.handleConvert)
	s.app.Get("/history", s.handleHistory)
	s.app.Get("/metrics", s.metrics.handler())
}

// App exposes the fiber app, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Msg("server running")
	return s.app.Listen(addr)
}

// Shutdown stops the server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
