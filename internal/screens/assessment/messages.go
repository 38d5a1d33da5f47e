package assessment

import (
	"time"

	"github.com/sailshr/wow/internal/remote"
	sess "github.com/sailshr/wow/internal/session"
)

// openedMsg is sent when the category session has been opened.
type openedMsg struct {
	State *sess.State
	Err   error
}

// backfillDoneMsg is sent when the remote answer backfill finishes.
// SessionID tags the session the fetch was started for; results for a
// session that is no longer active are discarded.
type backfillDoneMsg struct {
	SessionID string
	Err       error
}

// submitDoneMsg is sent when a section submission completes.
type submitDoneMsg struct {
	SessionID string
	Result    *remote.SubmitResult
	Err       error
}

// saveFlashDoneMsg clears the transient "saved" indicator.
type saveFlashDoneMsg time.Time
