package model

import (
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/types"
)

// PromptImpression records that an upgrade prompt was shown to an account.
// Used to enforce per-prompt cooldowns.
type PromptImpression struct {
	ID        int64
	AccountID int64
	PromptID  types.PromptID
	ShownAt   time.Time
}

// TrialReminder is a scheduled lifecycle email for a trialing account
type TrialReminder struct {
	ID        int64
	AccountID int64
	Day       int // day of trial the reminder fires on
	SendAt    time.Time
	SentAt    *time.Time
	CreatedAt time.Time
}

// Sent reports whether the reminder has been delivered
func (r *TrialReminder) Sent() bool {
	return r.SentAt != nil
}
