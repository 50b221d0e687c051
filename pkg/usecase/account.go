package usecase

import (
	"context"
	"time"

	"github.com/clearpath-fin/clearpath/pkg/domain/interfaces"
	"github.com/clearpath-fin/clearpath/pkg/domain/model"
	"github.com/clearpath-fin/clearpath/pkg/service/pentest"
	"github.com/m-mizutani/goerr/v2"
)

type AccountUseCase struct {
	repo interfaces.Repository
}

func NewAccountUseCase(repo interfaces.Repository) *AccountUseCase {
	return &AccountUseCase{repo: repo}
}

// Register creates an account. Email uniqueness is enforced by the
// repository layer.
func (uc *AccountUseCase) Register(ctx context.Context, email, name, occupation, region string) (*model.Account, error) {
	if err := pentest.ValidateEmail(email); err != nil {
		return nil, goerr.Wrap(err, "invalid account email")
	}
	if name == "" {
		return nil, goerr.New("account name is required")
	}

	now := time.Now().UTC()
	account, err := uc.repo.Account().Create(ctx, &model.Account{
		Email:      email,
		Name:       name,
		Occupation: occupation,
		Region:     region,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create account", goerr.V("email", email))
	}
	return account, nil
}

func (uc *AccountUseCase) Get(ctx context.Context, id int64) (*model.Account, error) {
	return uc.repo.Account().Get(ctx, id)
}

func (uc *AccountUseCase) List(ctx context.Context) ([]*model.Account, error) {
	return uc.repo.Account().List(ctx)
}
