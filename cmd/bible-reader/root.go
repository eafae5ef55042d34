package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bible-reader/internal/config"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "bible-reader",
		Short: "Terminal Bible reader with a companion reading server",
		Long: `bible-reader lets you pick a translation, a book and a chapter and
remembers where you stopped reading.

Without a subcommand it starts the terminal reader. "serve" runs the reading
server the reader talks to and "import" loads translations into it.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		SilenceUsage: true,
	}

	read := newReadCmd(v)
	cmd.RunE = read.RunE
	cmd.Flags().AddFlagSet(read.Flags())

	cmd.AddCommand(read)
	cmd.AddCommand(newServeCmd(v))
	cmd.AddCommand(newImportCmd(v))

	return cmd
}

// loadConfig binds the command's flags over env and defaults.
func loadConfig(v *viper.Viper, cmd *cobra.Command, flags map[string]string) (*config.Config, error) {
	for key, flag := range flags {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}
	return config.FromViper(v), nil
}

func newLogger(cfg config.Log, w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// openLogFile opens the configured log file, or reader.log under the user
// cache dir.
func openLogFile(cfg config.Log) (*os.File, error) {
	path := cfg.File
	if path == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(base, "bible-reader", "reader.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
