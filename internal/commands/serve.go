package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/balkashynov/times/internal/bot"
	"github.com/balkashynov/times/internal/config"
	"github.com/balkashynov/times/internal/db"
	"github.com/balkashynov/times/internal/report"
	"github.com/balkashynov/times/internal/web"
)

var envFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the slash-command and report server",
	Long: `Start the HTTP server that receives /times commands from Slack and serves
the tokenized report pages. Configuration comes from TIMES_* environment
variables, optionally loaded from an env file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf := config.Load(envFile)
		logger := newLogger(conf.LogLevel)

		dbPath := conf.DatabasePath
		if dbPath == "" {
			var err error
			if dbPath, err = db.DefaultPath(); err != nil {
				return fmt.Errorf("failed to resolve database path: %w", err)
			}
		}
		conn, err := db.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close(conn) //nolint:errcheck
		logger.Info("database ready", "path", dbPath)

		store := db.NewSessionStore(conn)
		contexts := report.NewContextCache(conf.ReportTTL)
		go sweepContexts(contexts, logger)

		handler := bot.NewHandler(store, contexts, bot.Options{
			BaseURL:         conf.BaseURL,
			AttachmentColor: conf.AttachmentColor,
			Logger:          logger,
		})
		server := web.NewServer(handler, store, contexts, web.Options{
			SigningSecret: conf.SigningSecret,
			Logger:        logger,
		})
		return server.Run(conf.ListenAddr)
	},
}

// newLogger builds the process logger at the configured level.
func newLogger(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{Level: lvl})
}

// sweepContexts periodically drops expired report links. Lookups already
// check expiry, this just keeps the map from growing between clock-outs.
func sweepContexts(contexts *report.ContextCache, logger *log.Logger) {
	for range time.Tick(time.Hour) {
		if removed := contexts.Sweep(time.Now()); removed > 0 {
			logger.Debug("swept report contexts", "removed", removed)
		}
	}
}

func init() {
	serveCmd.Flags().StringVar(&envFile, "env-file", "", "Env file to load before reading TIMES_* variables")
}
