package interfaces

import (
	"context"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
)

type PromptImpressionRepository interface {
	// Create records an upgrade prompt impression
	Create(ctx context.Context, imp *model.PromptImpression) (*model.PromptImpression, error)

	// LastShown retrieves the most recent impression of a prompt for an
	// account, or nil if the prompt was never shown
	LastShown(ctx context.Context, accountID int64, promptID types.PromptID) (*model.PromptImpression, error)

	// ListByAccount retrieves all impressions for an account
	ListByAccount(ctx context.Context, accountID int64) ([]*model.PromptImpression, error)
}

type TrialReminderRepository interface {
	// Create creates a new trial reminder with auto-generated ID
	Create(ctx context.Context, reminder *model.TrialReminder) (*model.TrialReminder, error)

	// ListDue retrieves unsent reminders whose SendAt is at or before now
	ListDue(ctx context.Context, now time.Time) ([]*model.TrialReminder, error)

	// ListByAccount retrieves all reminders for an account
	ListByAccount(ctx context.Context, accountID int64) ([]*model.TrialReminder, error)

	// MarkSent records the delivery time of a reminder
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
}
