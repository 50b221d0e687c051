package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestAccountUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a valid account", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)

		account, err := uc.Account.Register(ctx, "new@example.com", "New Account", "teaching", "us-east")
		gt.NoError(t, err).Required()

		gt.Value(t, account.ID).NotEqual(int64(0))
		gt.Value(t, account.Email).Equal("new@example.com")
		gt.Value(t, account.Occupation).Equal("teaching")
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)

		_, err := uc.Account.Register(ctx, "not-an-email", "Someone", "", "")
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects empty name", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)

		_, err := uc.Account.Register(ctx, "noname@example.com", "", "", "")
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)

		_, err := uc.Account.Register(ctx, "taken@example.com", "First", "", "")
		gt.NoError(t, err).Required()

		_, err = uc.Account.Register(ctx, "taken@example.com", "Second", "", "")
		gt.Value(t, err).NotNil()
	})

	t.Run("Get and List return registered accounts", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)

		created, err := uc.Account.Register(ctx, "listed@example.com", "Listed", "", "")
		gt.NoError(t, err).Required()

		retrieved, err := uc.Account.Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, retrieved.Email).Equal("listed@example.com")

		accounts, err := uc.Account.List(ctx)
		gt.NoError(t, err).Required()
		gt.A(t, accounts).Length(1)
	})
}
