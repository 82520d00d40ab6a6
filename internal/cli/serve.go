package cli

import (
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/carlosrabelo/unifi2icx/internal/db"
	"github.com/carlosrabelo/unifi2icx/internal/web"
)

type serveOptions struct {
	host      string
	port      string
	dbPath    string
	noHistory bool
}

// getEnv fetches environment variable or returns fallback
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newServeCmd creates the serve subcommand
func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the converter over HTTP",
		Long: `Start the web converter. WEB_HOST, WEB_PORT and DB_PATH are read from the
environment or from a .env file; flags take precedence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()
			opts.applyEnv(cmd)

			cfg, err := root.loadConfig("", false)
			if err != nil {
				return err
			}

			var store web.HistoryStore
			if !opts.noHistory {
				s, err := db.Open(opts.dbPath)
				if err != nil {
					return err
				}
				defer s.Close()
				store = s
			}

			srv := web.NewServer(root.newConverter(cfg), store, root.log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				if err := srv.Shutdown(); err != nil {
					root.log.Warn().Err(err).Msg("shutdown failed")
				}
			}()

			return srv.Listen(net.JoinHostPort(opts.host, opts.port))
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", "", "Listen address (env WEB_HOST, default 0.0.0.0)")
	cmd.Flags().StringVar(&opts.port, "port", "", "Listen port (env WEB_PORT, default 8080)")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "History database (env DB_PATH)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not record conversions")

	return cmd
}

// applyEnv fills the options not given on the command line
func (o *serveOptions) applyEnv(cmd *cobra.Command) {
	if !cmd.Flags().Changed("host") {
		o.host = getEnv("WEB_HOST", "0.0.0.0")
	}
	if !cmd.Flags().Changed("port") {
		o.port = getEnv("WEB_PORT", "8080")
	}
	if !cmd.Flags().Changed("db") {
		o.dbPath = getEnv("DB_PATH", filepath.Join(os.TempDir(), "unifi2icx.db"))
	}
}
