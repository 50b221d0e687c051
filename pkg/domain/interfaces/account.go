package interfaces

import (
	"context"

	"github.com/clearpath-fin/clearpath/pkg/domain/model"
)

type AccountRepository interface {
	// Create creates a new account with auto-generated ID
	Create(ctx context.Context, account *model.Account) (*model.Account, error)

	// Get retrieves an account by ID
	Get(ctx context.Context, id int64) (*model.Account, error)

	// GetByEmail retrieves an account by email address
	GetByEmail(ctx context.Context, email string) (*model.Account, error)

	// List retrieves all accounts
	List(ctx context.Context) ([]*model.Account, error)

	// Update updates an existing account
	Update(ctx context.Context, account *model.Account) (*model.Account, error)

	// Delete deletes an account by ID
	Delete(ctx context.Context, id int64) error
}
