package journal

import (
	"slices"

	"github.com/julianstephens/serene/internal/models"
)

// State is the visible journal list, oldest entry first.
type State struct {
	Entries []models.JournalEntry
}

// Transition is one step applied to State by Apply.
type Transition interface {
	transition()
}

// Speculate appends an unconfirmed entry. It is undone by Rollback.
type Speculate struct {
	Entry models.JournalEntry
}

// Commit replaces the list with the server's canonical one. Local names the
// speculative entry being superseded; other speculative entries still awaiting
// their own create are carried over after the canonical list.
type Commit struct {
	Local     int64
	Canonical []models.JournalEntry
}

// Rollback removes the speculative entry with the given local id.
type Rollback struct {
	Local int64
}

// Remove drops the entry with the given confirmed identity.
type Remove struct {
	ID models.EntryID
}

// Load replaces the list with a canonical fetch. Speculative entries still
// awaiting their create are carried over after it.
type Load struct {
	Canonical []models.JournalEntry
}

func (Speculate) transition() {}
func (Commit) transition()    {}
func (Rollback) transition()  {}
func (Remove) transition()    {}
func (Load) transition()      {}

// Apply returns the state after t. It never modifies s.
func Apply(s State, t Transition) State {
	switch t := t.(type) {
	case Speculate:
		out := slices.Clone(s.Entries)
		return State{Entries: append(out, t.Entry)}

	case Commit:
		return State{Entries: withPending(t.Canonical, s.Entries, t.Local)}

	case Rollback:
		return State{Entries: without(s.Entries, models.SpeculativeID(t.Local))}

	case Remove:
		if !t.ID.IsConfirmed() {
			return s
		}
		return State{Entries: without(s.Entries, t.ID)}

	case Load:
		return State{Entries: withPending(t.Canonical, s.Entries, 0)}

	default:
		return s
	}
}

// withPending appends the speculative entries of current, except local, to a
// copy of canonical. Local ids start at 1, so 0 skips nothing.
func withPending(canonical, current []models.JournalEntry, local int64) []models.JournalEntry {
	out := slices.Clone(canonical)
	for _, e := range current {
		if e.ID.IsSpeculative() && e.ID.Local != local {
			out = append(out, e)
		}
	}
	return out
}

func without(entries []models.JournalEntry, id models.EntryID) []models.JournalEntry {
	out := make([]models.JournalEntry, 0, len(entries))
	for _, e := range entries {
		if !sameID(e.ID, id) {
			out = append(out, e)
		}
	}
	return out
}

// sameID compares identities by kind and number; the namespace of a confirmed
// id is presentation only.
func sameID(a, b models.EntryID) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.IsSpeculative() {
		return a.Local == b.Local
	}
	return a.Server == b.Server
}

// Canonical turns the backend's newest-first, mixed-type feed into the
// visible list: journal entries only, oldest first.
func Canonical(feed []models.JournalEntry) []models.JournalEntry {
	out := make([]models.JournalEntry, 0, len(feed))
	for i := len(feed) - 1; i >= 0; i-- {
		if feed[i].Type == models.EntryTypeJournal {
			out = append(out, feed[i])
		}
	}
	return out
}

// DeleteAffordance reports whether a renderer may offer to delete e.
func DeleteAffordance(e models.JournalEntry) bool {
	return !e.IsOptimistic && e.ID.IsConfirmed()
}
