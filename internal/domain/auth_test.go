package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/internal/model"
	"github.com/questx-lab/giveaway/internal/repository"
	"github.com/questx-lab/giveaway/pkg/authenticator"
	"github.com/questx-lab/giveaway/pkg/errorx"
	"github.com/questx-lab/giveaway/pkg/testutil"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_authDomain_OAuth2Verify(t *testing.T) {
	ctx := testutil.MockContext()

	profiles := map[string]authenticator.OAuth2User{
		"token-alice": {ID: "alice", Email: "alice@example.com", FirstName: "Alice"},
		"token-bob":   {ID: "bob", Email: "bob@example.com"},
	}

	oauth2Service := testutil.NewMockOAuth2("oidc")
	oauth2Service.VerifyIDTokenFunc = func(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error) {
		user, ok := profiles[rawIDToken]
		if !ok {
			return authenticator.OAuth2User{}, errors.New("invalid token")
		}

		return user, nil
	}

	domain := NewAuthDomain(repository.NewUserRepository(), repository.NewTransactionRepository(), oauth2Service)

	alice, err := domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{IDToken: "token-alice"})
	require.NoError(t, err)
	require.Equal(t, "alice", alice.User.ID)
	require.True(t, alice.User.IsAdmin)
	require.Equal(t, int64(1000), alice.User.CurrencyBalance)
	require.Equal(t, "Alice", alice.User.DisplayName)

	txs, err := repository.NewTransactionRepository().GetByUserID(ctx, "alice", 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, entity.OpeningBalanceTransaction, txs[0].TransactionType)
	require.Equal(t, int64(1000), txs[0].Amount)
	require.False(t, txs[0].GiveawayID.Valid)

	var token model.AccessToken
	require.NoError(t, xcontext.TokenEngine(ctx).Verify(alice.AccessToken, &token))
	require.Equal(t, "alice", token.ID)

	bob, err := domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{IDToken: "token-bob"})
	require.NoError(t, err)
	require.False(t, bob.User.IsAdmin)
	require.Equal(t, "bob", bob.User.DisplayName)

	// A second login refreshes the profile but keeps balance and role. No
	// second opening row is written.
	profiles["token-alice"] = authenticator.OAuth2User{ID: "alice", FirstName: "Alicia", LastName: "Smith"}
	require.NoError(t, repository.NewUserRepository().DecreaseBalance(ctx, "alice", 300))

	alice, err = domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{IDToken: "token-alice"})
	require.NoError(t, err)
	require.Equal(t, "Alicia Smith", alice.User.DisplayName)
	require.Equal(t, "alice@example.com", alice.User.Email)
	require.Equal(t, int64(700), alice.User.CurrencyBalance)
	require.True(t, alice.User.IsAdmin)

	count, err := repository.NewUserRepository().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	txs, err = repository.NewTransactionRepository().GetByUserID(ctx, "alice", 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	_, err = domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{IDToken: "forged"})
	require.Equal(t, errorx.New(errorx.Unauthenticated, "Failed to verify id token"), err)

	_, err = domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow empty id token"), err)
}

func Test_authDomain_OAuth2Verify_DuplicatedEmail(t *testing.T) {
	ctx := testutil.MockContext()

	oauth2Service := testutil.NewMockOAuth2("oidc")
	oauth2Service.VerifyIDTokenFunc = func(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error) {
		return authenticator.OAuth2User{ID: rawIDToken, Email: "shared@example.com"}, nil
	}

	domain := NewAuthDomain(repository.NewUserRepository(), repository.NewTransactionRepository(), oauth2Service)

	_, err := domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{IDToken: "first"})
	require.NoError(t, err)

	_, err = domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{IDToken: "second"})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "This email is already used by another account"), err)

	count, err := repository.NewUserRepository().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

// rollbackTransactionRepository aborts the running database transaction right
// after writing a ledger row, so the following commit fails.
type rollbackTransactionRepository struct {
	repository.TransactionRepository
	rollback bool
}

func (r *rollbackTransactionRepository) Create(ctx context.Context, data *entity.Transaction) error {
	if err := r.TransactionRepository.Create(ctx, data); err != nil {
		return err
	}

	if r.rollback {
		return xcontext.DB(ctx).Rollback().Error
	}

	return nil
}

func Test_authDomain_OAuth2Verify_CommitFailed(t *testing.T) {
	ctx := testutil.MockContext()

	oauth2Service := testutil.NewMockOAuth2("oidc")
	oauth2Service.VerifyIDTokenFunc = func(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error) {
		return authenticator.OAuth2User{ID: rawIDToken, Email: rawIDToken + "@example.com"}, nil
	}

	transactionRepo := &rollbackTransactionRepository{
		TransactionRepository: repository.NewTransactionRepository(),
		rollback:              true,
	}
	domain := NewAuthDomain(repository.NewUserRepository(), transactionRepo, oauth2Service)

	_, err := domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{IDToken: "alice"})
	require.Equal(t, errorx.Unknown, err)

	count, err := repository.NewUserRepository().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)

	// Nobody was committed, so the next first login still becomes admin.
	transactionRepo.rollback = false
	alice, err := domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{IDToken: "alice"})
	require.NoError(t, err)
	require.True(t, alice.User.IsAdmin)

	bob, err := domain.OAuth2Verify(ctx, &model.OAuth2VerifyRequest{IDToken: "bob"})
	require.NoError(t, err)
	require.False(t, bob.User.IsAdmin)
}
