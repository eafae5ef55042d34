package navigator

import "slices"

// Selection returns the current (version, book, chapter) triple.
func (s State) Selection() Selection { return s.sel }

func (s State) Versions() []Version { return s.versions }
func (s State) Books() []string     { return s.books }
func (s State) Chapters() []int     { return s.chapters }

// Tier returns the load state of t.
func (s State) Tier(t Tier) LoadState { return s.tiers[t] }

// Err returns the error of the last failed load of t, if any.
func (s State) Err(t Tier) error { return s.errs[t] }

// Loading reports whether any tier has a fetch in flight.
func (s State) Loading() bool {
	return slices.Contains(s.tiers[:], Loading)
}

// Intent returns the restoration intent waiting to be consumed.
func (s State) Intent() RestorationIntent { return s.intent }

// LastReadLoaded reports whether the initial last-read lookup resolved.
func (s State) LastReadLoaded() bool { return s.lastReadLoaded }

// Pending returns the write waiting for its debounce timer, or nil.
func (s State) Pending() *PendingWrite { return s.pending }

// Valid reports whether every tier settled and the triple is consistent
// with the loaded lists.
func (s State) Valid() bool {
	return s.sel.Version != "" &&
		s.tiers[TierBook] == Loaded &&
		s.tiers[TierChapter] == Loaded &&
		slices.Contains(s.books, s.sel.Book) &&
		slices.Contains(s.chapters, s.sel.Chapter)
}

// MaxChapter is the last entry of the chapter list, or 1 when it is empty.
func (s State) MaxChapter() int {
	if len(s.chapters) == 0 {
		return 1
	}
	return s.chapters[len(s.chapters)-1]
}

func (s State) chapterIndex() int {
	if s.tiers[TierChapter] != Loaded {
		return -1
	}
	return slices.Index(s.chapters, s.sel.Chapter)
}

// CanPrev reports whether the current chapter has a predecessor in the list.
func (s State) CanPrev() bool {
	return s.chapterIndex() > 0
}

// CanNext reports whether the current chapter has a successor in the list.
func (s State) CanNext() bool {
	i := s.chapterIndex()
	return i >= 0 && i < len(s.chapters)-1
}

// Phase derives the cascade position from the tier states.
func (s State) Phase() Phase {
	switch {
	case slices.Contains(s.tiers[:], Failed):
		return PhaseError
	case s.tiers[TierVersion] != Loaded || s.sel.Version == "":
		return PhaseSelectingVersion
	case s.tiers[TierBook] == Loading:
		return PhaseLoadingBooks
	case s.sel.Book == "":
		return PhaseSelectingBook
	case s.tiers[TierChapter] == Loading:
		return PhaseLoadingChapters
	case s.tiers[TierChapter] == Loaded:
		return PhaseReady
	}
	// The book has no chapters in this version; another book has to be
	// picked.
	return PhaseSelectingBook
}

// EmptyMessage explains which tier has nothing to offer, or returns "" when
// every settled tier has entries.
func (s State) EmptyMessage() string {
	switch {
	case s.tiers[TierVersion] == Loading:
		return ""
	case s.tiers[TierVersion] != Loaded || s.sel.Version == "":
		return "Select a translation to begin"
	case s.tiers[TierBook] == Empty || s.tiers[TierBook] == Failed:
		return "No books available"
	case s.tiers[TierChapter] == Empty || s.tiers[TierChapter] == Failed:
		return "No chapters available"
	}
	return ""
}
