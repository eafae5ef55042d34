// Package navigator tracks which version, book and chapter a reader has
// selected, keeps each tier consistent with what the previous tier allows,
// and decides when the position is written back as the reader's last-read
// record.
//
// The package is a pure state machine: State.Apply takes an Event and
// returns the next State together with the Effects (fetches, timers, writes)
// the caller has to run. Runner executes those effects against a Catalog and
// a Profile and turns every outcome back into an Event.
package navigator

import (
	"fmt"
	"time"
)

// Version is one translation from the catalog.
type Version struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`
}

// Ref is the identifier used for book and chapter lookups.
func (v Version) Ref() string {
	if v.Name != "" {
		return v.Name
	}
	return v.ID
}

// Selection is the (version, book, chapter) triple. An empty Book or a zero
// Chapter means that tier has nothing selected yet.
type Selection struct {
	Version string
	Book    string
	Chapter int
}

func (s Selection) String() string {
	if s.Book == "" {
		return s.Version
	}
	return fmt.Sprintf("%s %s %d", s.Version, s.Book, s.Chapter)
}

// LastRead is the persisted reading position of a reader.
type LastRead struct {
	Book      string    `json:"book"`
	Chapter   int       `json:"chapter"`
	Version   string    `json:"version"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Preference holds the stored reader preferences that matter for navigation.
type Preference struct {
	Translation string `json:"translation,omitempty"`
}

// Tier is one of the three dependent selection levels.
type Tier int

const (
	TierVersion Tier = iota
	TierBook
	TierChapter
)

func (t Tier) String() string {
	switch t {
	case TierVersion:
		return "version"
	case TierBook:
		return "book"
	case TierChapter:
		return "chapter"
	}
	return "unknown"
}

// LoadState is the load status of a single tier.
type LoadState int

const (
	Idle LoadState = iota
	Loading
	Loaded
	Empty
	Failed
)

func (l LoadState) String() string {
	switch l {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Empty:
		return "empty"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Phase summarises where the cascade currently is.
type Phase int

const (
	PhaseSelectingVersion Phase = iota
	PhaseLoadingBooks
	PhaseSelectingBook
	PhaseLoadingChapters
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseSelectingVersion:
		return "selecting-version"
	case PhaseLoadingBooks:
		return "loading-books"
	case PhaseSelectingBook:
		return "selecting-book"
	case PhaseLoadingChapters:
		return "loading-chapters"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

// IntentKind tags a RestorationIntent.
type IntentKind int

const (
	// IntentNone means nothing has to be restored.
	IntentNone IntentKind = iota
	// IntentRestore carries a book (by name, then by ordinal index) and a
	// chapter across a book list reload.
	IntentRestore
	// IntentChapter carries only a chapter across a chapter list reload.
	IntentChapter
)

// RestorationIntent is the position a reload should try to land on. It is
// consumed by the book loader (IntentRestore) and then by the chapter loader
// (IntentChapter).
type RestorationIntent struct {
	Kind      IntentKind
	Book      string
	BookIndex int
	Chapter   int
}

func restoreIntent(book string, index, chapter int) RestorationIntent {
	return RestorationIntent{Kind: IntentRestore, Book: book, BookIndex: index, Chapter: chapter}
}

func chapterIntent(chapter int) RestorationIntent {
	if chapter <= 0 {
		return RestorationIntent{}
	}
	return RestorationIntent{Kind: IntentChapter, BookIndex: -1, Chapter: chapter}
}

// PendingWrite is a last-read write waiting for its debounce timer.
type PendingWrite struct {
	Token  uint64
	Record LastRead
}
