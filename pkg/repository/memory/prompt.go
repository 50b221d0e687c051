package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type promptImpressionRepository struct {
	mu          sync.RWMutex
	impressions map[int64]*model.PromptImpression
	nextID      int64
}

func newPromptImpressionRepository() *promptImpressionRepository {
	return &promptImpressionRepository{
		impressions: make(map[int64]*model.PromptImpression),
		nextID:      1,
	}
}

func (r *promptImpressionRepository) Create(ctx context.Context, imp *model.PromptImpression) (*model.PromptImpression, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := *imp
	created.ID = r.nextID
	if created.ShownAt.IsZero() {
		created.ShownAt = time.Now().UTC()
	}
	r.nextID++

	r.impressions[created.ID] = &created
	result := created
	return &result, nil
}

func (r *promptImpressionRepository) LastShown(ctx context.Context, accountID int64, promptID types.PromptID) (*model.PromptImpression, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last *model.PromptImpression
	for _, imp := range r.impressions {
		if imp.AccountID != accountID || imp.PromptID != promptID {
			continue
		}
		if last == nil || imp.ShownAt.After(last.ShownAt) {
			last = imp
		}
	}

	if last == nil {
		return nil, nil
	}
	result := *last
	return &result, nil
}

func (r *promptImpressionRepository) ListByAccount(ctx context.Context, accountID int64) ([]*model.PromptImpression, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	impressions := make([]*model.PromptImpression, 0)
	for _, imp := range r.impressions {
		if imp.AccountID == accountID {
			c := *imp
			impressions = append(impressions, &c)
		}
	}

	sort.Slice(impressions, func(i, j int) bool {
		return impressions[i].ShownAt.After(impressions[j].ShownAt)
	})

	return impressions, nil
}

type trialReminderRepository struct {
	mu        sync.RWMutex
	reminders map[int64]*model.TrialReminder
	nextID    int64
}

func newTrialReminderRepository() *trialReminderRepository {
	return &trialReminderRepository{
		reminders: make(map[int64]*model.TrialReminder),
		nextID:    1,
	}
}

func copyReminder(r *model.TrialReminder) *model.TrialReminder {
	c := *r
	if r.SentAt != nil {
		t := *r.SentAt
		c.SentAt = &t
	}
	return &c
}

func (r *trialReminderRepository) Create(ctx context.Context, reminder *model.TrialReminder) (*model.TrialReminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyReminder(reminder)
	created.ID = r.nextID
	created.CreatedAt = time.Now().UTC()
	r.nextID++

	r.reminders[created.ID] = created
	return copyReminder(created), nil
}

func (r *trialReminderRepository) ListDue(ctx context.Context, now time.Time) ([]*model.TrialReminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	due := make([]*model.TrialReminder, 0)
	for _, reminder := range r.reminders {
		if reminder.SentAt == nil && !reminder.SendAt.After(now) {
			due = append(due, copyReminder(reminder))
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].SendAt.Before(due[j].SendAt)
	})

	return due, nil
}

func (r *trialReminderRepository) ListByAccount(ctx context.Context, accountID int64) ([]*model.TrialReminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reminders := make([]*model.TrialReminder, 0)
	for _, reminder := range r.reminders {
		if reminder.AccountID == accountID {
			reminders = append(reminders, copyReminder(reminder))
		}
	}

	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].SendAt.Before(reminders[j].SendAt)
	})

	return reminders, nil
}

func (r *trialReminderRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminder, exists := r.reminders[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "trial reminder not found", goerr.V("id", id))
	}

	t := sentAt.UTC()
	reminder.SentAt = &t
	return nil
}
