// Package web is the HTTP surface: the Slack slash-command endpoint and
// the tokenized report pages.
package web

import (
	"embed"
	"html/template"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/balkashynov/times/internal/bot"
	"github.com/balkashynov/times/internal/db"
	"github.com/balkashynov/times/internal/report"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Options configures a Server.
type Options struct {
	// SigningSecret verifies inbound Slack requests. Empty disables
	// verification; only do that locally.
	SigningSecret string
	Logger        *log.Logger
}

// Server routes HTTP traffic to the bot handler and the report renderer.
type Server struct {
	router   *gin.Engine
	bot      *bot.Handler
	store    *db.SessionStore
	contexts *report.ContextCache

	signingSecret string
	logger        *log.Logger
}

// NewServer builds the router. Templates are embedded so the binary is
// self-contained.
func NewServer(handler *bot.Handler, store *db.SessionStore, contexts *report.ContextCache, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	s := &Server{
		router:        router,
		bot:           handler,
		store:         store,
		contexts:      contexts,
		signingSecret: opts.SigningSecret,
		logger:        logger,
	}

	router.GET("/", s.handleIndex)
	router.POST("/slash/times", s.handleSlashCommand)
	router.GET("/report/:token", s.handleReport)

	return s
}

// Run starts the server on addr and blocks.
func (s *Server) Run(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.router.Run(addr)
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
