package firestore

import (
	"context"
	"strconv"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type accountDocument struct {
	ID         int64     `firestore:"id"`
	Email      string    `firestore:"email"`
	Name       string    `firestore:"name"`
	Occupation string    `firestore:"occupation"`
	Region     string    `firestore:"region"`
	CreatedAt  time.Time `firestore:"created_at"`
	UpdatedAt  time.Time `firestore:"updated_at"`
}

func (d *accountDocument) toModel() *model.Account {
	return &model.Account{
		ID:         d.ID,
		Email:      d.Email,
		Name:       d.Name,
		Occupation: d.Occupation,
		Region:     d.Region,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type accountRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAccountRepository(client *firestore.Client) *accountRepository {
	return &accountRepository{client: client}
}

func (r *accountRepository) collection() string {
	return prefixed(r.collectionPrefix, "accounts")
}

func (r *accountRepository) counterCollection() string {
	return prefixed(r.collectionPrefix, "counters")
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) (*model.Account, error) {
	if _, err := r.GetByEmail(ctx, account.Email); err == nil {
		return nil, goerr.New("account email already registered", goerr.V("email", account.Email))
	}

	id, err := nextID(ctx, r.client, r.counterCollection(), "account_counter")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	doc := &accountDocument{
		ID:         id,
		Email:      account.Email,
		Name:       account.Name,
		Occupation: account.Occupation,
		Region:     account.Region,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to create account", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *accountRepository) Get(ctx context.Context, id int64) (*model.Account, error) {
	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10))
	snapshot, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "account not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get account", goerr.V("id", id))
	}

	var doc accountDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode account", goerr.V("id", id))
	}

	return doc.toModel(), nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	iter := r.client.Collection(r.collection()).Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snapshot, err := iter.Next()
	if err == iterator.Done {
		return nil, goerr.Wrap(ErrNotFound, "account not found", goerr.V("email", email))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query account by email", goerr.V("email", email))
	}

	var doc accountDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode account", goerr.V("email", email))
	}

	return doc.toModel(), nil
}

func (r *accountRepository) List(ctx context.Context) ([]*model.Account, error) {
	iter := r.client.Collection(r.collection()).Documents(ctx)
	defer iter.Stop()

	var accounts []*model.Account
	for {
		snapshot, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate accounts")
		}

		var doc accountDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "failed to decode account")
		}
		accounts = append(accounts, doc.toModel())
	}

	return accounts, nil
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) (*model.Account, error) {
	existing, err := r.Get(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	doc := &accountDocument{
		ID:         existing.ID,
		Email:      account.Email,
		Name:       account.Name,
		Occupation: account.Occupation,
		Region:     account.Region,
		CreatedAt:  existing.CreatedAt,
		UpdatedAt:  time.Now().UTC(),
	}

	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(account.ID, 10))
	if _, err := docRef.Set(ctx, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to update account", goerr.V("id", account.ID))
	}

	return doc.toModel(), nil
}

func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}

	docRef := r.client.Collection(r.collection()).Doc(strconv.FormatInt(id, 10))
	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete account", goerr.V("id", id))
	}

	return nil
}
