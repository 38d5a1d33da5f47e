package dashboard

import (
	"github.com/sailshr/wow/internal/remote"
)

// generationCheckedMsg reports the server generation reconciliation.
// Cleared is true when the marker changed and local progress was wiped.
type generationCheckedMsg struct {
	Cleared bool
	Err     error
}

// questionsLoadedMsg carries the fetched question set.
type questionsLoadedMsg struct {
	Questions remote.QuestionSet
	Err       error
}

// historyLoadedMsg carries the fetched assessment history, from which
// the cooldown status for the current band is derived.
type historyLoadedMsg struct {
	Entries []remote.HistoryEntry
	Err     error
}
