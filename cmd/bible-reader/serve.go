package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bible-reader/internal/database"
	"bible-reader/internal/database/bible"
	"bible-reader/internal/database/readers"
	"bible-reader/internal/server"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	var secureCookies bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reading server",
		Long: `Serves the version catalog, book and chapter lists, chapter text and
the per-reader last-read position and preferences over HTTP.

Readers identify themselves with the X-Reader-ID header; browsers without it
get an anonymous reader kept in a session cookie.`,
		Example: `  # Serve the default database on port 8190
  bible-reader serve

  # Custom port and database
  bible-reader serve --port 3000 --db ./bibles.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cmd, map[string]string{
				"port":          "port",
				"host":          "host",
				"database_path": "db",
			})
			if err != nil {
				return err
			}

			logger := newLogger(cfg.Log, os.Stderr)
			slog.SetDefault(logger)
			if cfg.Log.SlogLevel() > slog.LevelDebug {
				gin.SetMode(gin.ReleaseMode)
			}

			db, err := database.NewDatabase(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			sqlDB, err := db.DB.DB()
			if err != nil {
				return err
			}
			sessions, err := server.NewSessionManager(sqlDB, cfg.Session.Lifetime, secureCookies)
			if err != nil {
				return fmt.Errorf("failed to set up sessions: %w", err)
			}

			router := server.NewRouter(server.RouterConfig{
				Bible:          bible.NewRepository(db.DB),
				Readers:        readers.NewRepository(db.DB),
				Sessions:       sessions,
				Database:       db,
				DefaultVersion: cfg.DefaultVersion(),
				Version:        version,
			})

			return server.Serve(cmd.Context(), router, cfg.HTTP.Host, cfg.HTTP.Port, cfg.Global.ShutdownTimeout, func(ctx context.Context) {
				sessions.Close()
			})
		},
	}

	cmd.Flags().Int32P("port", "p", 0, "Port to listen on (default from PORT, 8190)")
	cmd.Flags().String("host", "", "Interface to bind (default from HOST, 0.0.0.0)")
	cmd.Flags().String("db", "", "SQLite database path (default from DATABASE_PATH)")
	cmd.Flags().BoolVar(&secureCookies, "secure-cookies", false, "Only send the session cookie over HTTPS")

	return cmd
}
