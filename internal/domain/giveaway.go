package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/giveaway/internal/common"
	"github.com/questx-lab/giveaway/internal/domain/lifecycle"
	"github.com/questx-lab/giveaway/internal/domain/search"
	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/internal/model"
	"github.com/questx-lab/giveaway/internal/repository"
	"github.com/questx-lab/giveaway/pkg/errorx"
	"github.com/questx-lab/giveaway/pkg/pubsub"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"github.com/questx-lab/giveaway/pkg/xredis"
	"golang.org/x/exp/maps"
	"gorm.io/gorm"
)

type GiveawayDomain interface {
	GetHome(context.Context, *model.GetHomeRequest) (*model.GetHomeResponse, error)
	Get(context.Context, *model.GetGiveawayRequest) (*model.GetGiveawayResponse, error)
	Enter(context.Context, *model.EnterGiveawayRequest) (*model.EnterGiveawayResponse, error)
	Search(context.Context, *model.SearchGiveawayRequest) (*model.SearchGiveawayResponse, error)
}

type giveawayDomain struct {
	giveawayRepo    repository.GiveawayRepository
	entryRepo       repository.EntryRepository
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository

	publisher   pubsub.Publisher
	redisClient xredis.Client
	indexer     search.Indexer
}

func NewGiveawayDomain(
	giveawayRepo repository.GiveawayRepository,
	entryRepo repository.EntryRepository,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	publisher pubsub.Publisher,
	redisClient xredis.Client,
	indexer search.Indexer,
) *giveawayDomain {
	return &giveawayDomain{
		giveawayRepo:    giveawayRepo,
		entryRepo:       entryRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
		redisClient:     redisClient,
		indexer:         indexer,
	}
}

func (d *giveawayDomain) GetHome(
	ctx context.Context, req *model.GetHomeRequest,
) (*model.GetHomeResponse, error) {
	now := time.Now()
	active, err := d.giveawayRepo.GetActive(ctx, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active giveaways: %v", err)
		return nil, errorx.Unknown
	}

	activeGiveaways, err := d.convertWithEntryCount(ctx, active)
	if err != nil {
		return nil, err
	}

	pastGiveaways, err := d.getRecentWinners(ctx)
	if err != nil {
		return nil, err
	}

	enteredIDs := []string{}
	if userID := xcontext.RequestUserID(ctx); userID != "" {
		entries, err := d.entryRepo.GetByUserID(ctx, userID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get entries of user: %v", err)
			return nil, errorx.Unknown
		}

		for _, e := range entries {
			enteredIDs = append(enteredIDs, e.GiveawayID)
		}
	}

	return &model.GetHomeResponse{
		ActiveGiveaways:    activeGiveaways,
		PastGiveaways:      pastGiveaways,
		EnteredGiveawayIDs: enteredIDs,
	}, nil
}

func (d *giveawayDomain) Get(
	ctx context.Context, req *model.GetGiveawayRequest,
) (*model.GetGiveawayResponse, error) {
	if req.ID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	giveaway, err := d.giveawayRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found giveaway")
		}

		xcontext.Logger(ctx).Errorf("Cannot get giveaway: %v", err)
		return nil, errorx.Unknown
	}

	if giveaway.WinnerID.Valid {
		winner, err := d.userRepo.GetByID(ctx, giveaway.WinnerID.String)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get winner of giveaway: %v", err)
			return nil, errorx.Unknown
		}
		giveaway.Winner = *winner
	}

	entryCount, err := d.entryRepo.CountByGiveawayID(ctx, giveaway.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count entries: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetGiveawayResponse{
		Giveaway: model.ConvertGiveaway(giveaway, entryCount),
		CanEnter: lifecycle.CanEnter(giveaway, entryCount, time.Now()),
	}

	if userID := xcontext.RequestUserID(ctx); userID != "" {
		entry, err := d.entryRepo.Get(ctx, userID, giveaway.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get entry of user: %v", err)
			return nil, errorx.Unknown
		}

		if err == nil {
			userEntry := model.ConvertEntry(entry)
			resp.UserEntry = &userEntry
		}
	}

	return resp, nil
}

func (d *giveawayDomain) Enter(
	ctx context.Context, req *model.EnterGiveawayRequest,
) (*model.EnterGiveawayResponse, error) {
	result := "rejected"
	defer func() {
		common.PromCounters[common.GiveawayEntryTotal].WithLabelValues(result).Inc()
	}()

	userID := xcontext.RequestUserID(ctx)
	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	giveaway, err := d.giveawayRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found giveaway")
		}

		xcontext.Logger(ctx).Errorf("Cannot get giveaway: %v", err)
		return nil, errorx.Unknown
	}

	entryCount, err := d.entryRepo.CountByGiveawayID(ctx, giveaway.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count entries: %v", err)
		return nil, errorx.Unknown
	}

	now := time.Now()
	if !lifecycle.CanEnter(giveaway, entryCount, now) {
		return nil, errorx.New(errorx.Unavailable, "This giveaway is no longer accepting entries")
	}

	insufficientBalanceErr := errorx.New(errorx.InsufficientBalance,
		"Insufficient balance. You need %d coins but only have %d coins",
		giveaway.TicketPrice, user.CurrencyBalance)
	if user.CurrencyBalance < giveaway.TicketPrice {
		return nil, insufficientBalanceErr
	}

	_, err = d.entryRepo.Get(ctx, user.ID, giveaway.ID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "You have already entered this giveaway")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get entry: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.userRepo.DecreaseBalance(ctx, user.ID, giveaway.TicketPrice); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, insufficientBalanceErr
		}

		xcontext.Logger(ctx).Errorf("Cannot decrease balance: %v", err)
		return nil, errorx.Unknown
	}

	entry := &entity.Entry{
		Base:       entity.Base{ID: uuid.NewString()},
		UserID:     user.ID,
		GiveawayID: giveaway.ID,
		EnteredAt:  now,
		CostPaid:   giveaway.TicketPrice,
	}
	if err := d.entryRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.Unavailable, "Error entering giveaway. Please try again")
		}

		xcontext.Logger(ctx).Errorf("Cannot create entry: %v", err)
		return nil, errorx.Unknown
	}

	err = d.transactionRepo.Create(ctx, &entity.Transaction{
		Base:            entity.Base{ID: uuid.NewString()},
		UserID:          user.ID,
		Amount:          -giveaway.TicketPrice,
		TransactionType: entity.TicketPurchaseTransaction,
		Description:     fmt.Sprintf("Entry ticket for %s", giveaway.Title),
		GiveawayID:      sql.NullString{Valid: true, String: giveaway.ID},
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create transaction: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	result = "accepted"
	common.PublishEvent(ctx, d.publisher, giveaway.ID, common.EntryCreatedEvent, common.EntryCreated{
		EntryID:    entry.ID,
		UserID:     user.ID,
		GiveawayID: giveaway.ID,
		CostPaid:   entry.CostPaid,
	})

	return &model.EnterGiveawayResponse{
		Entry:   model.ConvertEntry(entry),
		Balance: user.CurrencyBalance - giveaway.TicketPrice,
		Message: fmt.Sprintf("Successfully entered %s! %d coins deducted.",
			giveaway.Title, giveaway.TicketPrice),
	}, nil
}

func (d *giveawayDomain) Search(
	ctx context.Context, req *model.SearchGiveawayRequest,
) (*model.SearchGiveawayResponse, error) {
	if req.Q == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty query")
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	offset, limit := common.Clamp(req.Offset, req.Limit, apiCfg.DefaultLimit, apiCfg.MaxLimit)

	ids, err := d.indexer.Search(search.GiveawayDoc, req.Q, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot search giveaways: %v", err)
		return nil, errorx.Unknown
	}

	giveaways, err := d.giveawayRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get giveaways: %v", err)
		return nil, errorx.Unknown
	}

	// Keep the relevance order of the index.
	giveawayMap := map[string]entity.Giveaway{}
	for _, g := range giveaways {
		giveawayMap[g.ID] = g
	}

	ordered := []entity.Giveaway{}
	for _, id := range ids {
		if g, ok := giveawayMap[id]; ok {
			ordered = append(ordered, g)
		}
	}

	result, err := d.convertWithEntryCount(ctx, ordered)
	if err != nil {
		return nil, err
	}

	return &model.SearchGiveawayResponse{Giveaways: result}, nil
}

func (d *giveawayDomain) getRecentWinners(ctx context.Context) ([]model.Giveaway, error) {
	cfg := xcontext.Configs(ctx).Giveaway
	key := common.RedisKeyRecentWinners(cfg.RecentWinnersLimit)

	var cached []model.Giveaway
	err := d.redisClient.GetObj(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}

	if !errors.Is(err, xredis.ErrNotFound) {
		xcontext.Logger(ctx).Warnf("Cannot get recent winners from cache: %v", err)
	}

	recent, err := d.giveawayRepo.GetRecentWithWinner(ctx, cfg.RecentWinnersLimit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get recent winners: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.convertWithEntryCount(ctx, recent)
	if err != nil {
		return nil, err
	}

	if err := d.redisClient.SetObj(ctx, key, result, cfg.RecentWinnersTTL); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot cache recent winners: %v", err)
	}

	return result, nil
}

func (d *giveawayDomain) convertWithEntryCount(
	ctx context.Context, giveaways []entity.Giveaway,
) ([]model.Giveaway, error) {
	giveawayMap := map[string]*entity.Giveaway{}
	for i := range giveaways {
		giveawayMap[giveaways[i].ID] = &giveaways[i]
	}

	counts, err := d.entryRepo.CountByGiveawayIDs(ctx, maps.Keys(giveawayMap))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count entries: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Giveaway{}
	for i := range giveaways {
		result = append(result, model.ConvertGiveaway(&giveaways[i], counts[giveaways[i].ID]))
	}

	return result, nil
}
