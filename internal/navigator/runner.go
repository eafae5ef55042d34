package navigator

import (
	"context"
	"log/slog"
	"time"
)

// Catalog serves the version, book and chapter lists.
type Catalog interface {
	ListVersions(ctx context.Context) ([]Version, error)
	ListBooks(ctx context.Context, version string) ([]string, error)
	ListChapters(ctx context.Context, version, book string) ([]string, error)
}

// Profile stores the reader's last-read position and preferences. A nil
// record or preference with a nil error means there is none.
type Profile interface {
	LastRead(ctx context.Context) (*LastRead, error)
	SaveLastRead(ctx context.Context, rec LastRead) error
	Preferences(ctx context.Context) (*Preference, error)
}

// Runner executes effects and reports their outcome as events. Failures are
// logged and folded into the returned event; Run never panics or returns an
// error to the caller.
type Runner struct {
	catalog Catalog
	profile Profile
	logger  *slog.Logger
}

// NewRunner creates a Runner. profile may be nil, in which case the session
// starts without a last-read record or preferences and never persists.
func NewRunner(catalog Catalog, profile Profile, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{catalog: catalog, profile: profile, logger: logger}
}

// Run performs eff and returns the resulting event. It returns nil for
// effects that produce no event.
func (r *Runner) Run(ctx context.Context, eff Effect) Event {
	switch eff := eff.(type) {
	case FetchVersions:
		versions, err := r.catalog.ListVersions(ctx)
		if err != nil {
			r.logger.Error("Failed to load versions", "error", err)
		}
		return VersionsLoaded{Seq: eff.Seq, Versions: versions, Err: err}

	case FetchBooks:
		books, err := r.catalog.ListBooks(ctx, eff.Version)
		if err != nil {
			r.logger.Error("Failed to load books", "version", eff.Version, "error", err)
		}
		return BooksLoaded{Seq: eff.Seq, Version: eff.Version, Books: books, Err: err}

	case FetchChapters:
		chapters, err := r.catalog.ListChapters(ctx, eff.Version, eff.Book)
		if err != nil {
			r.logger.Error("Failed to load chapters", "version", eff.Version, "book", eff.Book, "error", err)
		}
		return ChaptersLoaded{Seq: eff.Seq, Version: eff.Version, Book: eff.Book, Chapters: chapters, Err: err}

	case FetchLastRead:
		if r.profile == nil {
			return LastReadLoaded{}
		}
		rec, err := r.profile.LastRead(ctx)
		if err != nil {
			r.logger.Warn("Failed to load last-read position", "error", err)
		}
		return LastReadLoaded{Record: rec, Err: err}

	case FetchPreferences:
		if r.profile == nil {
			return PreferencesLoaded{}
		}
		pref, err := r.profile.Preferences(ctx)
		if err != nil {
			r.logger.Warn("Failed to load preferences", "error", err)
		}
		return PreferencesLoaded{Preference: pref, Err: err}

	case SchedulePersist:
		t := time.NewTimer(eff.Delay)
		defer t.Stop()
		select {
		case <-t.C:
			return PersistDue{Token: eff.Token}
		case <-ctx.Done():
			return nil
		}

	case SaveLastRead:
		if r.profile == nil {
			return Saved{Record: eff.Record}
		}
		err := r.profile.SaveLastRead(ctx, eff.Record)
		if err != nil {
			r.logger.Error("Failed to save last-read position", "version", eff.Record.Version, "book", eff.Record.Book, "chapter", eff.Record.Chapter, "error", err)
		} else {
			r.logger.Debug("Saved last-read position", "version", eff.Record.Version, "book", eff.Record.Book, "chapter", eff.Record.Chapter)
		}
		return Saved{Record: eff.Record, Err: err}
	}
	return nil
}
