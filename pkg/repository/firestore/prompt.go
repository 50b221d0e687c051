package firestore

import (
	"context"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type promptImpressionDocument struct {
	ID        int64     `firestore:"id"`
	AccountID int64     `firestore:"account_id"`
	PromptID  string    `firestore:"prompt_id"`
	ShownAt   time.Time `firestore:"shown_at"`
}

func (d *promptImpressionDocument) toModel() *model.PromptImpression {
	return &model.PromptImpression{
		ID:        d.ID,
		AccountID: d.AccountID,
		PromptID:  types.PromptID(d.PromptID),
		ShownAt:   d.ShownAt,
	}
}

type promptImpressionRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newPromptImpressionRepository(client *firestore.Client) *promptImpressionRepository {
	return &promptImpressionRepository{client: client}
}

func (r *promptImpressionRepository) collection() string {
	return prefixed(r.collectionPrefix, "prompt_impressions")
}

func (r *promptImpressionRepository) counterCollection() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *promptImpressionRepository) Create(ctx context.Context, imp *model.PromptImpression) (*model.PromptImpression, error) {
	id, err := nextID(ctx, r.client, r.counterCollection(), "prompt_impression_counter")
	if err != nil {
		return nil, err
	}

	shownAt := imp.ShownAt
	if shownAt.IsZero() {
		shownAt = time.Now().UTC()
	}

	doc := &promptImpressionDocument{
		ID:        id,
		AccountID: imp.AccountID,
		PromptID:  imp.PromptID.String(),
		ShownAt:   shownAt,
	}

	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create prompt impression", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *promptImpressionRepository) LastShown(ctx context.Context, accountID int64, promptID types.PromptID) (*model.PromptImpression, error) {
	iter := r.client.Collection(r.collection()).
		Where("account_id", "==", accountID).
		Where("prompt_id", "==", promptID.String()).
		OrderBy("shown_at", firestore.Desc).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	snapshot, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query prompt impression",
			goerr.V("account_id", accountID), goerr.V("prompt_id", promptID))
	}

	var doc promptImpressionDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode prompt impression")
	}

	return doc.toModel(), nil
}

func (r *promptImpressionRepository) ListByAccount(ctx context.Context, accountID int64) ([]*model.PromptImpression, error) {
	iter := r.client.Collection(r.collection()).
		Where("account_id", "==", accountID).
		OrderBy("shown_at", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	var impressions []*model.PromptImpression
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate prompt impressions", goerr.V("account_id", accountID))
		}

		var doc promptImpressionDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode prompt impression")
		}
		impressions = append(impressions, doc.toModel())
	}

	return impressions, nil
}

type trialReminderDocument struct {
	ID        int64      `firestore:"id"`
	AccountID int64      `firestore:"account_id"`
	Day       int        `firestore:"day"`
	SendAt    time.Time  `firestore:"send_at"`
	SentAt    *time.Time `firestore:"sent_at"`
	CreatedAt time.Time  `firestore:"created_at"`
}

func (d *trialReminderDocument) toModel() *model.TrialReminder {
	return &model.TrialReminder{
		ID:        d.ID,
		AccountID: d.AccountID,
		Day:       d.Day,
		SendAt:    d.SendAt,
		SentAt:    d.SentAt,
		CreatedAt: d.CreatedAt,
	}
}

type trialReminderRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTrialReminderRepository(client *firestore.Client) *trialReminderRepository {
	return &trialReminderRepository{client: client}
}

func (r *trialReminderRepository) collection() string {
	return prefixed(r.collectionPrefix, "trial_reminders")
}

func (r *trialReminderRepository) counterCollection() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *trialReminderRepository) Create(ctx context.Context, reminder *model.TrialReminder) (*model.TrialReminder, error) {
	id, err := nextID(ctx, r.client, r.counterCollection(), "trial_reminder_counter")
	if err != nil {
		return nil, err
	}

	doc := &trialReminderDocument{
		ID:        id,
		AccountID: reminder.AccountID,
		Day:       reminder.Day,
		SendAt:    reminder.SendAt,
		SentAt:    reminder.SentAt,
		CreatedAt: time.Now().UTC(),
	}

	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create trial reminder", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *trialReminderRepository) ListDue(ctx context.Context, now time.Time) ([]*model.TrialReminder, error) {
	iter := r.client.Collection(r.collection()).
		Where("sent_at", "==", nil).
		Where("send_at", "<=", now).
		Documents(ctx)
	defer iter.Stop()

	var due []*model.TrialReminder
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate due reminders")
		}

		var doc trialReminderDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode trial reminder")
		}
		due = append(due, doc.toModel())
	}

	return due, nil
}

func (r *trialReminderRepository) ListByAccount(ctx context.Context, accountID int64) ([]*model.TrialReminder, error) {
	iter := r.client.Collection(r.collection()).
		Where("account_id", "==", accountID).
		OrderBy("send_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var reminders []*model.TrialReminder
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate trial reminders", goerr.V("account_id", accountID))
		}

		var doc trialReminderDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode trial reminder")
		}
		reminders = append(reminders, doc.toModel())
	}

	return reminders, nil
}

func (r *trialReminderRepository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10))
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "sent_at", Value: sentAt.UTC()},
	})
	if err != nil {
		return goerr.Wrap(err, "failed to mark trial reminder sent", goerr.V("id", id))
	}
	return nil
}
