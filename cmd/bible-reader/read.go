package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bible-reader/internal/api"
	"bible-reader/internal/cache"
	"bible-reader/internal/navigator"
	"bible-reader/internal/settings"
	"bible-reader/internal/theme"
	"bible-reader/internal/ui"
)

const flushTimeout = 3 * time.Second

func newReadCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read",
		Short: "Open the terminal reader",
		Example: `  # Read against a local server
  bible-reader read --api-url http://localhost:8190

  # Dutch defaults, position kept on this machine only
  bible-reader read --language nl --offline`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cmd, map[string]string{
				"api_url":         "api-url",
				"reader_language": "language",
				"offline":         "offline",
				"cache_enabled":   "cache",
			})
			if err != nil {
				return err
			}

			logFile, err := openLogFile(cfg.Log)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer logFile.Close()
			logger := newLogger(cfg.Log, logFile)

			settingsPath, err := settings.DefaultPath()
			if err != nil {
				return err
			}
			readerID, err := settings.EnsureReaderID(settingsPath)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}
			stored, err := settings.Load(settingsPath)
			if err != nil {
				return fmt.Errorf("load settings: %w", err)
			}

			client := api.NewClient(cfg.Reader.APIURL, readerID)
			if cfg.Reader.CacheEnabled {
				if dir, err := cache.DefaultDir(); err == nil {
					if c, err := cache.NewCache(dir); err == nil {
						client.SetCache(c)
					} else {
						logger.Warn("List cache disabled", "error", err)
					}
				}
			}

			local := settings.NewLocalProfile(settingsPath)
			var (
				profile navigator.Profile  = client
				prefs   ui.PreferenceSaver = client
			)
			if cfg.Reader.Offline {
				profile, prefs = local, local
			}

			logger.Info("Starting reader", "api", cfg.Reader.APIURL, "language", cfg.Navigation.Language, "offline", cfg.Reader.Offline)

			ctx := cmd.Context()
			model := ui.NewModel(ctx, ui.Options{
				Navigator: navigator.Options{
					Language:        cfg.Navigation.Language,
					DefaultVersions: cfg.Navigation.DefaultVersions,
					PersistDelay:    cfg.Navigation.PersistDelay,
				},
				Runner:      navigator.NewRunner(client, profile, logger),
				Chapters:    client,
				Preferences: prefs,
				Theme:       theme.GetTheme(stored.Theme),
				OnThemeChange: func(t theme.Theme) {
					if err := local.SaveTheme(t.Name); err != nil {
						logger.Warn("Failed to save theme", "error", err)
					}
				},
				Logger: logger,
			})

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
			final, err := p.Run()
			if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("run reader: %w", err)
			}

			if m, ok := final.(ui.Model); ok {
				flushPending(m.State(), profile, logger)
			}
			return nil
		},
	}

	cmd.Flags().String("api-url", "", "Reading server URL (default from API_URL)")
	cmd.Flags().String("language", "", "UI language used to pick a default translation, e.g. en or nl")
	cmd.Flags().Bool("offline", false, "Keep the reading position in the local settings file")
	cmd.Flags().Bool("cache", true, "Cache book and chapter lists on disk")

	return cmd
}

// flushPending writes a position whose debounce timer had not fired yet when
// the reader quit.
func flushPending(state navigator.State, profile navigator.Profile, logger *slog.Logger) {
	pending := state.Pending()
	if pending == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()
	if err := profile.SaveLastRead(ctx, pending.Record); err != nil {
		logger.Error("Failed to save last-read position on exit", "error", err)
	}
}
