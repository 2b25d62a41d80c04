package domain

import (
	"context"
	"errors"

	"github.com/questx-lab/giveaway/internal/common"
	"github.com/questx-lab/giveaway/internal/model"
	"github.com/questx-lab/giveaway/internal/repository"
	"github.com/questx-lab/giveaway/pkg/errorx"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"gorm.io/gorm"
)

type UserDomain interface {
	GetMe(context.Context, *model.GetMeRequest) (*model.GetMeResponse, error)
	GetMyTransactions(context.Context, *model.GetMyTransactionsRequest) (*model.GetMyTransactionsResponse, error)
}

type userDomain struct {
	userRepo        repository.UserRepository
	giveawayRepo    repository.GiveawayRepository
	entryRepo       repository.EntryRepository
	transactionRepo repository.TransactionRepository
}

func NewUserDomain(
	userRepo repository.UserRepository,
	giveawayRepo repository.GiveawayRepository,
	entryRepo repository.EntryRepository,
	transactionRepo repository.TransactionRepository,
) *userDomain {
	return &userDomain{
		userRepo:        userRepo,
		giveawayRepo:    giveawayRepo,
		entryRepo:       entryRepo,
		transactionRepo: transactionRepo,
	}
}

func (d *userDomain) GetMe(ctx context.Context, req *model.GetMeRequest) (*model.GetMeResponse, error) {
	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	entries, err := d.entryRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get entries: %v", err)
		return nil, errorx.Unknown
	}

	won, err := d.giveawayRepo.GetWonByUserID(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get won giveaways: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetMeResponse{
		User:         model.ConvertUser(user),
		Entries:      []model.Entry{},
		WonGiveaways: []model.Giveaway{},
		TotalEntries: len(entries),
		TotalWins:    len(won),
	}

	for i := range entries {
		resp.Entries = append(resp.Entries, model.ConvertEntry(&entries[i]))
		resp.TotalSpending += entries[i].CostPaid
	}

	for i := range won {
		resp.WonGiveaways = append(resp.WonGiveaways, model.ConvertGiveaway(&won[i], 0))
	}

	return resp, nil
}

func (d *userDomain) GetMyTransactions(
	ctx context.Context, req *model.GetMyTransactionsRequest,
) (*model.GetMyTransactionsResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	offset, limit := common.Clamp(req.Offset, req.Limit, apiCfg.DefaultLimit, apiCfg.MaxLimit)

	txs, err := d.transactionRepo.GetByUserID(ctx, xcontext.RequestUserID(ctx), offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get transactions: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Transaction{}
	for i := range txs {
		result = append(result, model.ConvertTransaction(&txs[i]))
	}

	return &model.GetMyTransactionsResponse{Transactions: result}, nil
}
