package memory

import (
	"context"
	"sync"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type accountRepository struct {
	mu       sync.RWMutex
	accounts map[int64]*model.Account
	nextID   int64
}

func newAccountRepository() *accountRepository {
	return &accountRepository{
		accounts: make(map[int64]*model.Account),
		nextID:   1,
	}
}

func copyAccount(a *model.Account) *model.Account {
	c := *a
	return &c
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return nil, goerr.New("account email already registered", goerr.V("email", account.Email))
		}
	}

	now := time.Now().UTC()
	created := copyAccount(account)
	created.ID = r.nextID
	created.CreatedAt = now
	created.UpdatedAt = now
	r.nextID++

	r.accounts[created.ID] = created
	return copyAccount(created), nil
}

func (r *accountRepository) Get(ctx context.Context, id int64) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, exists := r.accounts[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "account not found", goerr.V("id", id))
	}

	// Return a copy to prevent external modification
	return copyAccount(account), nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.Email == email {
			return copyAccount(account), nil
		}
	}

	return nil, goerr.Wrap(ErrNotFound, "account not found", goerr.V("email", email))
}

func (r *accountRepository) List(ctx context.Context) ([]*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*model.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		accounts = append(accounts, copyAccount(account))
	}

	return accounts, nil
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.accounts[account.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "account not found", goerr.V("id", account.ID))
	}

	updated := copyAccount(account)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.accounts[updated.ID] = updated
	return copyAccount(updated), nil
}

func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[id]; !exists {
		return goerr.Wrap(ErrNotFound, "account not found", goerr.V("id", id))
	}

	delete(r.accounts, id)
	return nil
}
