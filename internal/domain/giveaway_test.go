package domain

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/questx-lab/giveaway/internal/domain/search"
	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/internal/model"
	"github.com/questx-lab/giveaway/internal/repository"
	"github.com/questx-lab/giveaway/pkg/errorx"
	"github.com/questx-lab/giveaway/pkg/testutil"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestGiveawayDomain(
	ctx context.Context, publisher *testutil.MockPublisher, redisClient *testutil.MockRedisClient,
) *giveawayDomain {
	return NewGiveawayDomain(
		repository.NewGiveawayRepository(),
		repository.NewEntryRepository(),
		repository.NewUserRepository(),
		repository.NewTransactionRepository(),
		publisher,
		redisClient,
		search.NewBleveIndex(ctx),
	)
}

// requireLedgerConsistent checks that the balance of user equals the sum of
// their ledger, opening row included.
func requireLedgerConsistent(t *testing.T, ctx context.Context, userID string) {
	user, err := repository.NewUserRepository().GetByID(ctx, userID)
	require.NoError(t, err)

	sum, err := repository.NewTransactionRepository().SumAmountByUserID(ctx, userID)
	require.NoError(t, err)

	require.Equal(t, sum, user.CurrencyBalance)
}

// ticketPurchases returns the ledger rows of user written by entering
// giveaways.
func ticketPurchases(t *testing.T, ctx context.Context, userID string) []entity.Transaction {
	txs, err := repository.NewTransactionRepository().GetByUserID(ctx, userID, 0, 100)
	require.NoError(t, err)

	result := []entity.Transaction{}
	for _, tx := range txs {
		if tx.TransactionType == entity.TicketPurchaseTransaction {
			result = append(result, tx)
		}
	}

	return result
}

func Test_giveawayDomain_Enter(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	giveaway, err := testutil.SampleGiveaway(ctx, &entity.Giveaway{Title: "Console", TicketPrice: 150})
	require.NoError(t, err)

	publisher := &testutil.MockPublisher{}
	domain := newTestGiveawayDomain(ctx, publisher, &testutil.MockRedisClient{})

	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	resp, err := domain.Enter(ctx, &model.EnterGiveawayRequest{ID: giveaway.ID})
	require.NoError(t, err)
	require.Equal(t, int64(850), resp.Balance)
	require.Equal(t, int64(150), resp.Entry.CostPaid)

	got, err := repository.NewUserRepository().GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(850), got.CurrencyBalance)

	txs := ticketPurchases(t, ctx, user.ID)
	require.Len(t, txs, 1)
	require.Equal(t, int64(-150), txs[0].Amount)
	require.Equal(t, "Entry ticket for Console", txs[0].Description)
	require.Equal(t, giveaway.ID, txs[0].GiveawayID.String)

	requireLedgerConsistent(t, ctx, user.ID)
	require.Len(t, publisher.Packs["giveaway"], 1)
	require.Equal(t, []byte(giveaway.ID), publisher.Packs["giveaway"][0].Key)
}

func Test_giveawayDomain_Enter_Twice(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	giveaway, err := testutil.SampleGiveaway(ctx, nil)
	require.NoError(t, err)

	domain := newTestGiveawayDomain(ctx, &testutil.MockPublisher{}, &testutil.MockRedisClient{})
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	_, err = domain.Enter(ctx, &model.EnterGiveawayRequest{ID: giveaway.ID})
	require.NoError(t, err)

	_, err = domain.Enter(ctx, &model.EnterGiveawayRequest{ID: giveaway.ID})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "You have already entered this giveaway"), err)

	got, err := repository.NewUserRepository().GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(900), got.CurrencyBalance)

	count, err := repository.NewEntryRepository().CountByGiveawayID(ctx, giveaway.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	requireLedgerConsistent(t, ctx, user.ID)
}

func Test_giveawayDomain_Enter_TwiceWithLowBalance(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, &entity.User{CurrencyBalance: 150})
	require.NoError(t, err)
	giveaway, err := testutil.SampleGiveaway(ctx, nil)
	require.NoError(t, err)

	domain := newTestGiveawayDomain(ctx, &testutil.MockPublisher{}, &testutil.MockRedisClient{})
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	_, err = domain.Enter(ctx, &model.EnterGiveawayRequest{ID: giveaway.ID})
	require.NoError(t, err)

	// The balance check runs before the duplicate check, so a repeated entry
	// with less than the ticket price left reports the balance.
	_, err = domain.Enter(ctx, &model.EnterGiveawayRequest{ID: giveaway.ID})
	require.Equal(t, errorx.New(errorx.InsufficientBalance,
		"Insufficient balance. You need 100 coins but only have 50 coins"), err)

	got, err := repository.NewUserRepository().GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(50), got.CurrencyBalance)

	count, err := repository.NewEntryRepository().CountByGiveawayID(ctx, giveaway.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	require.Len(t, ticketPurchases(t, ctx, user.ID), 1)
	requireLedgerConsistent(t, ctx, user.ID)
}

func Test_giveawayDomain_Enter_InsufficientBalance(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, &entity.User{CurrencyBalance: 50})
	require.NoError(t, err)
	giveaway, err := testutil.SampleGiveaway(ctx, nil)
	require.NoError(t, err)

	domain := newTestGiveawayDomain(ctx, &testutil.MockPublisher{}, &testutil.MockRedisClient{})
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	_, err = domain.Enter(ctx, &model.EnterGiveawayRequest{ID: giveaway.ID})
	require.Equal(t, errorx.New(errorx.InsufficientBalance,
		"Insufficient balance. You need 100 coins but only have 50 coins"), err)

	got, err := repository.NewUserRepository().GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(50), got.CurrencyBalance)

	count, err := repository.NewEntryRepository().Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)

	require.Empty(t, ticketPurchases(t, ctx, user.ID))
	requireLedgerConsistent(t, ctx, user.ID)
}

func Test_giveawayDomain_Enter_Unavailable(t *testing.T) {
	unavailableErr := errorx.New(errorx.Unavailable, "This giveaway is no longer accepting entries")

	tests := []struct {
		name   string
		modify func(ctx context.Context, g *entity.Giveaway)
	}{
		{
			name: "inactive",
			modify: func(ctx context.Context, g *entity.Giveaway) {
				g.IsActive = false
			},
		},
		{
			name: "ended",
			modify: func(ctx context.Context, g *entity.Giveaway) {
				g.StartDate = time.Now().Add(-2 * time.Hour)
				g.EndDate = time.Now().Add(-time.Hour)
			},
		},
		{
			name: "has winner",
			modify: func(ctx context.Context, g *entity.Giveaway) {
				winner, err := testutil.SampleUser(ctx, nil)
				if err != nil {
					panic(err)
				}

				err = repository.NewGiveawayRepository().SetWinner(ctx, g.ID, winner.ID, time.Now())
				if err != nil {
					panic(err)
				}
			},
		},
		{
			name: "full",
			modify: func(ctx context.Context, g *entity.Giveaway) {
				other, err := testutil.SampleUser(ctx, nil)
				if err != nil {
					panic(err)
				}

				if _, err := testutil.SampleEntry(ctx, other.ID, g.ID, 100); err != nil {
					panic(err)
				}

				g.MaxEntries = sql.NullInt64{Valid: true, Int64: 1}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			user, err := testutil.SampleUser(ctx, nil)
			require.NoError(t, err)
			giveaway, err := testutil.SampleGiveaway(ctx, nil)
			require.NoError(t, err)

			tt.modify(ctx, &giveaway)
			require.NoError(t, repository.NewGiveawayRepository().UpdateByID(ctx, giveaway.ID, &giveaway))

			domain := newTestGiveawayDomain(ctx, &testutil.MockPublisher{}, &testutil.MockRedisClient{})
			ctx = xcontext.WithRequestUserID(ctx, user.ID)

			_, err = domain.Enter(ctx, &model.EnterGiveawayRequest{ID: giveaway.ID})
			require.Equal(t, unavailableErr, err)

			got, err := repository.NewUserRepository().GetByID(ctx, user.ID)
			require.NoError(t, err)
			require.Equal(t, int64(1000), got.CurrencyBalance)
		})
	}
}

func Test_giveawayDomain_Enter_LastSeat(t *testing.T) {
	ctx := testutil.MockContext()
	alice, err := testutil.SampleUser(ctx, &entity.User{CurrencyBalance: 1000})
	require.NoError(t, err)
	bob, err := testutil.SampleUser(ctx, &entity.User{CurrencyBalance: 1000})
	require.NoError(t, err)
	giveaway, err := testutil.SampleGiveaway(ctx, &entity.Giveaway{
		TicketPrice: 100,
		MaxEntries:  sql.NullInt64{Valid: true, Int64: 1},
	})
	require.NoError(t, err)

	domain := newTestGiveawayDomain(ctx, &testutil.MockPublisher{}, &testutil.MockRedisClient{})

	resp, err := domain.Enter(xcontext.WithRequestUserID(ctx, alice.ID),
		&model.EnterGiveawayRequest{ID: giveaway.ID})
	require.NoError(t, err)
	require.Equal(t, int64(900), resp.Balance)

	_, err = domain.Enter(xcontext.WithRequestUserID(ctx, bob.ID),
		&model.EnterGiveawayRequest{ID: giveaway.ID})
	require.Equal(t, errorx.New(errorx.Unavailable, "This giveaway is no longer accepting entries"), err)

	got, err := repository.NewUserRepository().GetByID(ctx, bob.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1000), got.CurrencyBalance)
}

// staleEntryRepository never sees an existing entry, as if another request
// inserted it right after the check.
type staleEntryRepository struct {
	repository.EntryRepository
}

func (r *staleEntryRepository) Get(ctx context.Context, userID, giveawayID string) (*entity.Entry, error) {
	return nil, gorm.ErrRecordNotFound
}

func Test_giveawayDomain_Enter_ConcurrentDuplicate(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	giveaway, err := testutil.SampleGiveaway(ctx, nil)
	require.NoError(t, err)
	_, err = testutil.SampleEntry(ctx, user.ID, giveaway.ID, 100)
	require.NoError(t, err)

	domain := NewGiveawayDomain(
		repository.NewGiveawayRepository(),
		&staleEntryRepository{EntryRepository: repository.NewEntryRepository()},
		repository.NewUserRepository(),
		repository.NewTransactionRepository(),
		&testutil.MockPublisher{},
		&testutil.MockRedisClient{},
		search.NewBleveIndex(ctx),
	)

	_, err = domain.Enter(xcontext.WithRequestUserID(ctx, user.ID),
		&model.EnterGiveawayRequest{ID: giveaway.ID})
	require.Equal(t, errorx.New(errorx.Unavailable, "Error entering giveaway. Please try again"), err)

	got, err := repository.NewUserRepository().GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1000), got.CurrencyBalance)

	require.Empty(t, ticketPurchases(t, ctx, user.ID))
	requireLedgerConsistent(t, ctx, user.ID)
}

func Test_giveawayDomain_Get(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	giveaway, err := testutil.SampleGiveaway(ctx, nil)
	require.NoError(t, err)

	domain := newTestGiveawayDomain(ctx, &testutil.MockPublisher{}, &testutil.MockRedisClient{})
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	resp, err := domain.Get(ctx, &model.GetGiveawayRequest{ID: giveaway.ID})
	require.NoError(t, err)
	require.True(t, resp.CanEnter)
	require.Nil(t, resp.UserEntry)
	require.Equal(t, int64(0), resp.Giveaway.EntryCount)

	_, err = domain.Enter(ctx, &model.EnterGiveawayRequest{ID: giveaway.ID})
	require.NoError(t, err)

	resp, err = domain.Get(ctx, &model.GetGiveawayRequest{ID: giveaway.ID})
	require.NoError(t, err)
	require.NotNil(t, resp.UserEntry)
	require.Equal(t, int64(1), resp.Giveaway.EntryCount)

	_, err = domain.Get(ctx, &model.GetGiveawayRequest{ID: "unknown"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found giveaway"), err)
}

func Test_giveawayDomain_GetHome(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	now := time.Now()
	later, err := testutil.SampleGiveaway(ctx, &entity.Giveaway{EndDate: now.Add(72 * time.Hour)})
	require.NoError(t, err)
	sooner, err := testutil.SampleGiveaway(ctx, &entity.Giveaway{EndDate: now.Add(3 * time.Hour)})
	require.NoError(t, err)
	past, err := testutil.SampleGiveaway(ctx, &entity.Giveaway{
		StartDate: now.Add(-48 * time.Hour),
		EndDate:   now.Add(-24 * time.Hour),
	})
	require.NoError(t, err)
	_, err = testutil.SampleEntry(ctx, user.ID, past.ID, 100)
	require.NoError(t, err)
	require.NoError(t, repository.NewGiveawayRepository().SetWinner(ctx, past.ID, user.ID, now))

	redisClient := &testutil.MockRedisClient{}
	domain := newTestGiveawayDomain(ctx, &testutil.MockPublisher{}, redisClient)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	resp, err := domain.GetHome(ctx, &model.GetHomeRequest{})
	require.NoError(t, err)
	require.Len(t, resp.ActiveGiveaways, 2)
	require.Equal(t, sooner.ID, resp.ActiveGiveaways[0].ID)
	require.Equal(t, later.ID, resp.ActiveGiveaways[1].ID)
	require.Len(t, resp.PastGiveaways, 1)
	require.Equal(t, past.ID, resp.PastGiveaways[0].ID)
	require.Equal(t, user.ID, resp.PastGiveaways[0].WinnerID)
	require.NotNil(t, resp.PastGiveaways[0].Winner)
	require.Equal(t, []string{past.ID}, resp.EnteredGiveawayIDs)

	exist, err := redisClient.Exist(ctx, "giveaway:recent_winners:5")
	require.NoError(t, err)
	require.True(t, exist)
}

func Test_giveawayDomain_Search(t *testing.T) {
	ctx := testutil.MockContext()
	giveaway, err := testutil.SampleGiveaway(ctx, &entity.Giveaway{Title: "Mechanical keyboard"})
	require.NoError(t, err)
	_, err = testutil.SampleGiveaway(ctx, &entity.Giveaway{Title: "Coffee mug"})
	require.NoError(t, err)

	indexer := search.NewBleveIndex(ctx)
	require.NoError(t, indexer.Index(search.GiveawayDoc, giveaway.ID, search.GiveawayData{
		Title: giveaway.Title, Description: giveaway.Description, Prize: giveaway.Prize,
	}))

	domain := NewGiveawayDomain(
		repository.NewGiveawayRepository(),
		repository.NewEntryRepository(),
		repository.NewUserRepository(),
		repository.NewTransactionRepository(),
		&testutil.MockPublisher{},
		&testutil.MockRedisClient{},
		indexer,
	)

	resp, err := domain.Search(ctx, &model.SearchGiveawayRequest{Q: "keyboard"})
	require.NoError(t, err)
	require.Len(t, resp.Giveaways, 1)
	require.Equal(t, giveaway.ID, resp.Giveaways[0].ID)

	_, err = domain.Search(ctx, &model.SearchGiveawayRequest{})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow empty query"), err)
}
