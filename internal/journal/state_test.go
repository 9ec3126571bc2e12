package journal

import (
	"testing"

	"github.com/julianstephens/serene/internal/models"
)

func confirmed(n int64, content string) models.JournalEntry {
	return models.JournalEntry{ID: models.ConfirmedID("journal", n), Type: models.EntryTypeJournal, Content: content}
}

func speculative(local int64, content string) models.JournalEntry {
	return models.JournalEntry{ID: models.SpeculativeID(local), Type: models.EntryTypeJournal, Content: content, IsOptimistic: true}
}

func contents(s State) []string {
	out := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Content
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply(t *testing.T) {
	base := State{Entries: []models.JournalEntry{confirmed(1, "a"), confirmed(2, "b")}}

	tests := []struct {
		name  string
		start State
		tr    Transition
		want  []string
	}{
		{
			name:  "speculate appends",
			start: base,
			tr:    Speculate{Entry: speculative(100, "c")},
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "rollback removes only the speculative entry",
			start: State{Entries: []models.JournalEntry{confirmed(1, "a"), speculative(100, "c")}},
			tr:    Rollback{Local: 100},
			want:  []string{"a"},
		},
		{
			name:  "rollback ignores confirmed ids with the same number",
			start: State{Entries: []models.JournalEntry{confirmed(100, "a"), speculative(100, "c")}},
			tr:    Rollback{Local: 100},
			want:  []string{"a"},
		},
		{
			name:  "commit replaces wholesale",
			start: State{Entries: []models.JournalEntry{confirmed(1, "stale"), speculative(100, "c")}},
			tr:    Commit{Local: 100, Canonical: []models.JournalEntry{confirmed(1, "a"), confirmed(3, "c")}},
			want:  []string{"a", "c"},
		},
		{
			name:  "commit keeps other pending entries",
			start: State{Entries: []models.JournalEntry{speculative(100, "c"), speculative(101, "d")}},
			tr:    Commit{Local: 100, Canonical: []models.JournalEntry{confirmed(3, "c")}},
			want:  []string{"c", "d"},
		},
		{
			name:  "remove drops exactly that identity",
			start: base,
			tr:    Remove{ID: models.ConfirmedID("", 2)},
			want:  []string{"a"},
		},
		{
			name:  "remove ignores speculative ids",
			start: State{Entries: []models.JournalEntry{speculative(2, "c")}},
			tr:    Remove{ID: models.SpeculativeID(2)},
			want:  []string{"c"},
		},
		{
			name:  "load",
			start: base,
			tr:    Load{Canonical: []models.JournalEntry{confirmed(9, "z")}},
			want:  []string{"z"},
		},
		{
			name:  "load keeps pending entries",
			start: State{Entries: []models.JournalEntry{confirmed(1, "a"), speculative(100, "c")}},
			tr:    Load{Canonical: []models.JournalEntry{confirmed(1, "a"), confirmed(2, "b")}},
			want:  []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := contents(tt.start)
			got := Apply(tt.start, tt.tr)
			if !equal(contents(got), tt.want) {
				t.Errorf("Apply() = %v, want %v", contents(got), tt.want)
			}
			if !equal(contents(tt.start), before) {
				t.Errorf("Apply() modified its input: %v", contents(tt.start))
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	feed := []models.JournalEntry{
		confirmed(3, "newest"),
		{ID: models.ConfirmedID("chat", 2), Type: "chat", Content: "hi"},
		{ID: models.ConfirmedID("", 5), Content: "untyped"},
		confirmed(1, "oldest"),
	}

	got := contents(State{Entries: Canonical(feed)})
	if want := []string{"oldest", "newest"}; !equal(got, want) {
		t.Errorf("Canonical() = %v, want %v", got, want)
	}
}

func TestDeleteAffordance(t *testing.T) {
	if DeleteAffordance(speculative(1, "x")) {
		t.Error("optimistic entry must not be deletable")
	}
	optimisticConfirmed := confirmed(1, "x")
	optimisticConfirmed.IsOptimistic = true
	if DeleteAffordance(optimisticConfirmed) {
		t.Error("entry flagged optimistic must not be deletable")
	}
	if !DeleteAffordance(confirmed(1, "x")) {
		t.Error("confirmed entry should be deletable")
	}
}
