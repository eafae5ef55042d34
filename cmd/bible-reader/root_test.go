package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bible-reader/internal/navigator"
	"bible-reader/internal/settings"
)

type fixedCatalog struct{}

func (fixedCatalog) ListVersions(ctx context.Context) ([]navigator.Version, error) {
	return []navigator.Version{{Name: "ASV", Language: "en"}}, nil
}

func (fixedCatalog) ListBooks(ctx context.Context, version string) ([]string, error) {
	return []string{"Genesis", "Exodus"}, nil
}

func (fixedCatalog) ListChapters(ctx context.Context, version, book string) ([]string, error) {
	return []string{"1", "2", "3"}, nil
}

// settle applies effects until only debounce timers are left.
func settle(t *testing.T, state navigator.State, runner *navigator.Runner, ev navigator.Event) navigator.State {
	t.Helper()
	queue := []navigator.Event{ev}
	for len(queue) > 0 {
		var effects []navigator.Effect
		state, effects = state.Apply(queue[0])
		queue = queue[1:]
		for _, eff := range effects {
			if _, ok := eff.(navigator.SchedulePersist); ok {
				continue
			}
			if next := runner.Run(context.Background(), eff); next != nil {
				queue = append(queue, next)
			}
		}
	}
	return state
}

func TestFlushPending_SavesUnwrittenPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	profile := settings.NewLocalProfile(path)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := navigator.NewRunner(fixedCatalog{}, profile, logger)

	state := navigator.New(navigator.Options{Language: "en", PersistDelay: time.Hour})
	state = settle(t, state, runner, navigator.Start{})
	state = settle(t, state, runner, navigator.NextChapter{})
	require.NotNil(t, state.Pending())

	flushPending(state, profile, logger)

	rec, err := profile.LastRead(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "ASV", rec.Version)
	assert.Equal(t, "Genesis", rec.Book)
	assert.Equal(t, 2, rec.Chapter)
}

func TestFlushPending_NothingPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	profile := settings.NewLocalProfile(path)

	flushPending(navigator.New(navigator.Options{}), profile, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec, err := profile.LastRead(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestLoadConfig_FlagsOverrideDefaults(t *testing.T) {
	v := viper.New()
	cmd := newReadCmd(v)
	require.NoError(t, cmd.Flags().Set("api-url", "http://reader.test:9000"))
	require.NoError(t, cmd.Flags().Set("offline", "true"))

	cfg, err := loadConfig(v, cmd, map[string]string{
		"api_url": "api-url",
		"offline": "offline",
		"missing": "no-such-flag",
	})
	require.NoError(t, err)

	assert.Equal(t, "http://reader.test:9000", cfg.Reader.APIURL)
	assert.True(t, cfg.Reader.Offline)
	assert.True(t, cfg.Reader.CacheEnabled)
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"read", "serve", "import"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	assert.NotNil(t, root.Flags().Lookup("offline"))
}
