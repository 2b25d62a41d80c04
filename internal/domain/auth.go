package domain

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/internal/model"
	"github.com/questx-lab/giveaway/internal/repository"
	"github.com/questx-lab/giveaway/pkg/authenticator"
	"github.com/questx-lab/giveaway/pkg/errorx"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"gorm.io/gorm"
)

type AuthDomain interface {
	OAuth2Verify(context.Context, *model.OAuth2VerifyRequest) (*model.OAuth2VerifyResponse, error)
	Logout(context.Context, *model.LogoutRequest) (*model.LogoutResponse, error)
}

type authDomain struct {
	hasAdmin      bool
	hasAdminMutex sync.Mutex

	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	oauth2Service   authenticator.IOAuth2Service
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	oauth2Service authenticator.IOAuth2Service,
) *authDomain {
	return &authDomain{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		oauth2Service:   oauth2Service,
	}
}

func (d *authDomain) OAuth2Verify(
	ctx context.Context, req *model.OAuth2VerifyRequest,
) (*model.OAuth2VerifyResponse, error) {
	if req.IDToken == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id token")
	}

	info, err := d.oauth2Service.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify id token of %s: %v", d.oauth2Service.Service(), err)
		return nil, errorx.New(errorx.Unauthenticated, "Failed to verify id token")
	}

	profile := &entity.User{
		ID:              info.ID,
		FirstName:       info.FirstName,
		LastName:        info.LastName,
		ProfileImageURL: info.Picture,
	}
	if info.Email != "" {
		profile.Email = sql.NullString{Valid: true, String: info.Email}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	created := false
	user, err := d.userRepo.GetByID(ctx, info.ID)
	switch {
	case err == nil:
		if err := d.userRepo.UpdateProfileByID(ctx, user.ID, profile); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, errorx.New(errorx.AlreadyExists, "This email is already used by another account")
			}

			xcontext.Logger(ctx).Errorf("Cannot update user profile: %v", err)
			return nil, errorx.Unknown
		}

		user, err = d.userRepo.GetByID(ctx, info.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Held until the new user is committed, so a concurrent first login
		// cannot also become admin.
		d.hasAdminMutex.Lock()
		defer d.hasAdminMutex.Unlock()

		user, err = d.createUser(ctx, profile)
		if err != nil {
			return nil, err
		}
		created = true

	default:
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	if created {
		d.hasAdmin = true
	}

	cfg := xcontext.Configs(ctx).Auth
	accessToken, err := xcontext.TokenEngine(ctx).Generate(
		cfg.AccessToken.Expiration, model.AccessToken{ID: user.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.OAuth2VerifyResponse{
		User:        model.ConvertUser(user),
		AccessToken: accessToken,
	}, nil
}

func (d *authDomain) Logout(ctx context.Context, req *model.LogoutRequest) (*model.LogoutResponse, error) {
	return &model.LogoutResponse{}, nil
}

// createUser inserts a new user with the starting balance and its opening
// ledger row. The very first user becomes an admin. The caller must hold
// hasAdminMutex.
func (d *authDomain) createUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	if !d.hasAdmin {
		count, err := d.userRepo.Count(ctx)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count users: %v", err)
			return nil, errorx.Unknown
		}

		user.IsAdmin = count == 0
	}

	user.CurrencyBalance = xcontext.Configs(ctx).Giveaway.StartingBalance
	if err := d.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "This email is already used by another account")
		}

		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	err := d.transactionRepo.Create(ctx, &entity.Transaction{
		Base:            entity.Base{ID: uuid.NewString()},
		UserID:          user.ID,
		Amount:          user.CurrencyBalance,
		TransactionType: entity.OpeningBalanceTransaction,
		Description:     "Opening balance",
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create opening transaction: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}
