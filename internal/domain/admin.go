package domain

import (
	"context"
	"database/sql"
	"errors"
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
	"github.com/questx-lab/giveaway/pkg/storage"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"github.com/questx-lab/giveaway/pkg/xredis"
	"gorm.io/gorm"
)

const dashboardRecentGiveaways = 5

type AdminDomain interface {
	Dashboard(context.Context, *model.DashboardRequest) (*model.DashboardResponse, error)
	GetListGiveaway(context.Context, *model.GetListGiveawayRequest) (*model.GetListGiveawayResponse, error)
	CreateGiveaway(context.Context, *model.CreateGiveawayRequest) (*model.CreateGiveawayResponse, error)
	UpdateGiveaway(context.Context, *model.UpdateGiveawayRequest) (*model.UpdateGiveawayResponse, error)
	DeleteGiveaway(context.Context, *model.DeleteGiveawayRequest) (*model.DeleteGiveawayResponse, error)
	SelectWinner(context.Context, *model.SelectWinnerRequest) (*model.SelectWinnerResponse, error)
	UploadPrizeImage(context.Context, *model.UploadPrizeImageRequest) (*model.UploadPrizeImageResponse, error)
	GetListUser(context.Context, *model.GetListUserRequest) (*model.GetListUserResponse, error)
	ToggleAdmin(context.Context, *model.ToggleAdminRequest) (*model.ToggleAdminResponse, error)
	GrantCurrency(context.Context, *model.GrantCurrencyRequest) (*model.GrantCurrencyResponse, error)
	AuditLedger(context.Context, *model.AuditLedgerRequest) (*model.AuditLedgerResponse, error)
}

type adminDomain struct {
	giveawayRepo    repository.GiveawayRepository
	entryRepo       repository.EntryRepository
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository

	publisher   pubsub.Publisher
	redisClient xredis.Client
	indexer     search.Indexer
	storage     storage.Storage
	rand        lifecycle.Randomizer
}

func NewAdminDomain(
	giveawayRepo repository.GiveawayRepository,
	entryRepo repository.EntryRepository,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	publisher pubsub.Publisher,
	redisClient xredis.Client,
	indexer search.Indexer,
	storage storage.Storage,
	rand lifecycle.Randomizer,
) *adminDomain {
	return &adminDomain{
		giveawayRepo:    giveawayRepo,
		entryRepo:       entryRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
		redisClient:     redisClient,
		indexer:         indexer,
		storage:         storage,
		rand:            rand,
	}
}

func (d *adminDomain) Dashboard(
	ctx context.Context, req *model.DashboardRequest,
) (*model.DashboardResponse, error) {
	totalGiveaways, err := d.giveawayRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count giveaways: %v", err)
		return nil, errorx.Unknown
	}

	activeGiveaways, err := d.giveawayRepo.CountActive(ctx, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count active giveaways: %v", err)
		return nil, errorx.Unknown
	}

	totalUsers, err := d.userRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count users: %v", err)
		return nil, errorx.Unknown
	}

	totalEntries, err := d.entryRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count entries: %v", err)
		return nil, errorx.Unknown
	}

	recent, err := d.getListGiveaway(ctx, 0, dashboardRecentGiveaways)
	if err != nil {
		return nil, err
	}

	return &model.DashboardResponse{
		TotalGiveaways:  totalGiveaways,
		ActiveGiveaways: activeGiveaways,
		TotalUsers:      totalUsers,
		TotalEntries:    totalEntries,
		RecentGiveaways: recent,
	}, nil
}

func (d *adminDomain) GetListGiveaway(
	ctx context.Context, req *model.GetListGiveawayRequest,
) (*model.GetListGiveawayResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	offset, limit := common.Clamp(req.Offset, req.Limit, apiCfg.DefaultLimit, apiCfg.MaxLimit)

	giveaways, err := d.getListGiveaway(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	total, err := d.giveawayRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count giveaways: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetListGiveawayResponse{Giveaways: giveaways, Total: total}, nil
}

func (d *adminDomain) CreateGiveaway(
	ctx context.Context, req *model.CreateGiveawayRequest,
) (*model.CreateGiveawayResponse, error) {
	giveaway := &entity.Giveaway{
		Base:        entity.Base{ID: uuid.NewString()},
		IsActive:    true,
		TicketPrice: xcontext.Configs(ctx).Giveaway.DefaultTicketPrice,
	}

	err := applyGiveawayForm(giveaway, giveawayForm{
		Title:       req.Title,
		Description: req.Description,
		Prize:       req.Prize,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MaxEntries:  req.MaxEntries,
		IsActive:    req.IsActive,
		TicketPrice: req.TicketPrice,
	})
	if err != nil {
		return nil, err
	}

	if err := d.giveawayRepo.Create(ctx, giveaway); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create giveaway: %v", err)
		return nil, errorx.Unknown
	}

	d.indexGiveaway(ctx, giveaway)

	return &model.CreateGiveawayResponse{ID: giveaway.ID}, nil
}

func (d *adminDomain) UpdateGiveaway(
	ctx context.Context, req *model.UpdateGiveawayRequest,
) (*model.UpdateGiveawayResponse, error) {
	giveaway, err := d.giveawayRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found giveaway")
		}

		xcontext.Logger(ctx).Errorf("Cannot get giveaway: %v", err)
		return nil, errorx.Unknown
	}

	// An omitted max_entries removes the limit, as the form always submits it.
	giveaway.MaxEntries = sql.NullInt64{}
	err = applyGiveawayForm(giveaway, giveawayForm{
		Title:       req.Title,
		Description: req.Description,
		Prize:       req.Prize,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		MaxEntries:  req.MaxEntries,
		IsActive:    req.IsActive,
		TicketPrice: req.TicketPrice,
	})
	if err != nil {
		return nil, err
	}

	if err := d.giveawayRepo.UpdateByID(ctx, giveaway.ID, giveaway); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update giveaway: %v", err)
		return nil, errorx.Unknown
	}

	d.indexGiveaway(ctx, giveaway)
	d.invalidateRecentWinners(ctx)

	return &model.UpdateGiveawayResponse{}, nil
}

func (d *adminDomain) DeleteGiveaway(
	ctx context.Context, req *model.DeleteGiveawayRequest,
) (*model.DeleteGiveawayResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.entryRepo.DeleteByGiveawayID(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete entries: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.transactionRepo.DetachGiveaway(ctx, req.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot detach transactions: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.giveawayRepo.DeleteByID(ctx, req.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found giveaway")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete giveaway: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.indexer.Delete(search.GiveawayDoc, req.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot delete giveaway from index: %v", err)
	}
	d.invalidateRecentWinners(ctx)

	return &model.DeleteGiveawayResponse{}, nil
}

func (d *adminDomain) SelectWinner(
	ctx context.Context, req *model.SelectWinnerRequest,
) (*model.SelectWinnerResponse, error) {
	result := "rejected"
	defer func() {
		common.PromCounters[common.GiveawayWinnerTotal].WithLabelValues(result).Inc()
	}()

	giveaway, err := d.giveawayRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found giveaway")
		}

		xcontext.Logger(ctx).Errorf("Cannot get giveaway: %v", err)
		return nil, errorx.Unknown
	}

	alreadySelectedErr := errorx.New(errorx.AlreadyExists,
		"Winner has already been selected for this giveaway")
	if giveaway.HasWinner() {
		return nil, alreadySelectedErr
	}

	entries, err := d.entryRepo.GetByGiveawayID(ctx, giveaway.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get entries: %v", err)
		return nil, errorx.Unknown
	}

	draw, ok := lifecycle.DrawWinner(d.rand, giveaway, entries, time.Now())
	if !ok {
		return nil, errorx.New(errorx.Unavailable, "No entries for this giveaway")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.giveawayRepo.SetWinner(ctx, draw.GiveawayID, draw.WinnerID, draw.SelectedAt)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, alreadySelectedErr
		}

		xcontext.Logger(ctx).Errorf("Cannot set winner: %v", err)
		return nil, errorx.Unknown
	}

	winner, err := d.userRepo.GetByID(ctx, draw.WinnerID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get winner: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	result = "selected"
	d.invalidateRecentWinners(ctx)
	common.PublishEvent(ctx, d.publisher, giveaway.ID, common.WinnerSelectedEvent, common.WinnerSelected{
		GiveawayID: draw.GiveawayID,
		WinnerID:   draw.WinnerID,
		EntryID:    draw.EntryID,
		SelectedAt: draw.SelectedAt.Format(model.DefaultTimeLayout),
	})

	return &model.SelectWinnerResponse{
		WinnerID:     winner.ID,
		WinnerName:   winner.DisplayName(),
		EntryID:      draw.EntryID,
		SelectedAt:   draw.SelectedAt.Format(model.DefaultTimeLayout),
		TotalEntries: len(entries),
	}, nil
}

func (d *adminDomain) UploadPrizeImage(
	ctx context.Context, req *model.UploadPrizeImageRequest,
) (*model.UploadPrizeImageResponse, error) {
	httpReq := xcontext.HTTPRequest(ctx)
	if httpReq == nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	giveawayID := httpReq.FormValue("giveaway_id")
	if giveawayID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty giveaway id")
	}

	giveaway, err := d.giveawayRepo.GetByID(ctx, giveawayID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found giveaway")
		}

		xcontext.Logger(ctx).Errorf("Cannot get giveaway: %v", err)
		return nil, errorx.Unknown
	}

	resp, err := common.ProcessPrizeImage(ctx, d.storage, "image", giveaway.ID)
	if err != nil {
		return nil, err
	}

	if err := d.giveawayRepo.UpdateImageURL(ctx, giveaway.ID, resp.Url); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update image url: %v", err)
		return nil, errorx.Unknown
	}

	d.invalidateRecentWinners(ctx)

	return &model.UploadPrizeImageResponse{URL: resp.Url}, nil
}

func (d *adminDomain) GetListUser(
	ctx context.Context, req *model.GetListUserRequest,
) (*model.GetListUserResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	offset, limit := common.Clamp(req.Offset, req.Limit, apiCfg.DefaultLimit, apiCfg.MaxLimit)

	users, err := d.userRepo.GetList(ctx, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of users: %v", err)
		return nil, errorx.Unknown
	}

	total, err := d.userRepo.Count(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count users: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.User{}
	for i := range users {
		result = append(result, model.ConvertUser(&users[i]))
	}

	return &model.GetListUserResponse{Users: result, Total: total}, nil
}

func (d *adminDomain) ToggleAdmin(
	ctx context.Context, req *model.ToggleAdminRequest,
) (*model.ToggleAdminResponse, error) {
	if req.UserID == xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "You cannot modify your own admin status")
	}

	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.UpdateAdminByID(ctx, user.ID, !user.IsAdmin); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update admin status: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ToggleAdminResponse{IsAdmin: !user.IsAdmin}, nil
}

func (d *adminDomain) GrantCurrency(
	ctx context.Context, req *model.GrantCurrencyRequest,
) (*model.GrantCurrencyResponse, error) {
	if req.Amount == 0 {
		return nil, errorx.New(errorx.BadRequest, "Amount must be non-zero")
	}

	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if req.Amount > 0 {
		err = d.userRepo.IncreaseBalance(ctx, user.ID, req.Amount)
	} else {
		err = d.userRepo.DecreaseBalance(ctx, user.ID, -req.Amount)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.InsufficientBalance,
				"Cannot deduct %d coins, user only has %d coins", -req.Amount, user.CurrencyBalance)
		}

		xcontext.Logger(ctx).Errorf("Cannot change balance: %v", err)
		return nil, errorx.Unknown
	}

	description := req.Description
	if description == "" {
		description = "Granted by admin"
	}

	err = d.transactionRepo.Create(ctx, &entity.Transaction{
		Base:            entity.Base{ID: uuid.NewString()},
		UserID:          user.ID,
		Amount:          req.Amount,
		TransactionType: entity.AdminGrantTransaction,
		Description:     description,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create transaction: %v", err)
		return nil, errorx.Unknown
	}

	updated, err := d.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GrantCurrencyResponse{Balance: updated.CurrencyBalance}, nil
}

func (d *adminDomain) AuditLedger(
	ctx context.Context, req *model.AuditLedgerRequest,
) (*model.AuditLedgerResponse, error) {
	user, err := d.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	sum, err := d.transactionRepo.SumAmountByUserID(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot sum transactions: %v", err)
		return nil, errorx.Unknown
	}

	// The ledger starts with an opening balance row, so it alone accounts for
	// the whole balance.
	return &model.AuditLedgerResponse{
		Balance:         user.CurrencyBalance,
		LedgerSum:       sum,
		ExpectedBalance: sum,
		Drift:           user.CurrencyBalance - sum,
	}, nil
}

func (d *adminDomain) getListGiveaway(ctx context.Context, offset, limit int) ([]model.Giveaway, error) {
	giveaways, err := d.giveawayRepo.GetList(ctx, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list of giveaways: %v", err)
		return nil, errorx.Unknown
	}

	ids := []string{}
	for _, g := range giveaways {
		ids = append(ids, g.ID)
	}

	counts, err := d.entryRepo.CountByGiveawayIDs(ctx, ids)
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

func (d *adminDomain) indexGiveaway(ctx context.Context, giveaway *entity.Giveaway) {
	err := d.indexer.Index(search.GiveawayDoc, giveaway.ID, search.GiveawayData{
		Title:       giveaway.Title,
		Description: giveaway.Description,
		Prize:       giveaway.Prize,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot index giveaway: %v", err)
	}
}

func (d *adminDomain) invalidateRecentWinners(ctx context.Context) {
	key := common.RedisKeyRecentWinners(xcontext.Configs(ctx).Giveaway.RecentWinnersLimit)
	if err := d.redisClient.Del(ctx, key); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate recent winners: %v", err)
	}
}

type giveawayForm struct {
	Title       string
	Description string
	Prize       string
	StartDate   string
	EndDate     string
	MaxEntries  *int64
	IsActive    *bool
	TicketPrice *int64
}

// applyGiveawayForm validates form and writes it into giveaway. Nothing is
// written if any field is invalid.
func applyGiveawayForm(giveaway *entity.Giveaway, form giveawayForm) error {
	if form.Title == "" {
		return errorx.New(errorx.BadRequest, "Title is required")
	}

	if form.Prize == "" {
		return errorx.New(errorx.BadRequest, "Prize is required")
	}

	// An omitted start date keeps the stored one, or starts now for a new
	// giveaway.
	startDate := giveaway.StartDate
	if form.StartDate != "" {
		var err error
		startDate, err = common.ParseDate(form.StartDate)
		if err != nil {
			return errorx.New(errorx.BadRequest, "Invalid date format. Please try again.")
		}
	} else if startDate.IsZero() {
		startDate = time.Now()
	}

	endDate, err := common.ParseDate(form.EndDate)
	if err != nil {
		return errorx.New(errorx.BadRequest, "Invalid date format. Please try again.")
	}

	if !endDate.After(startDate) {
		return errorx.New(errorx.BadRequest, "End date must be after start date")
	}

	if form.MaxEntries != nil && *form.MaxEntries <= 0 {
		return errorx.New(errorx.BadRequest, "Max entries must be a positive number")
	}

	if form.TicketPrice != nil && *form.TicketPrice < 0 {
		return errorx.New(errorx.BadRequest, "Ticket price must not be negative")
	}

	giveaway.Title = form.Title
	giveaway.Description = form.Description
	giveaway.Prize = form.Prize
	giveaway.StartDate = startDate
	giveaway.EndDate = endDate

	if form.MaxEntries != nil {
		giveaway.MaxEntries = sql.NullInt64{Valid: true, Int64: *form.MaxEntries}
	}

	if form.IsActive != nil {
		giveaway.IsActive = *form.IsActive
	}

	if form.TicketPrice != nil {
		giveaway.TicketPrice = *form.TicketPrice
	}

	return nil
}
