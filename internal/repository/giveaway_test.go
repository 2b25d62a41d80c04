package repository_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/internal/repository"
	"github.com/questx-lab/giveaway/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_giveawayRepository_SetWinner(t *testing.T) {
	ctx := testutil.MockContext()
	first, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	second, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	giveaway, err := testutil.SampleGiveaway(ctx, nil)
	require.NoError(t, err)

	giveawayRepo := repository.NewGiveawayRepository()
	require.NoError(t, giveawayRepo.SetWinner(ctx, giveaway.ID, first.ID, time.Now()))

	err = giveawayRepo.SetWinner(ctx, giveaway.ID, second.ID, time.Now())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := giveawayRepo.GetByID(ctx, giveaway.ID)
	require.NoError(t, err)
	require.Equal(t, sql.NullString{Valid: true, String: first.ID}, got.WinnerID)
	require.True(t, got.WinnerSelectedAt.Valid)
}

func Test_giveawayRepository_UpdateByID(t *testing.T) {
	ctx := testutil.MockContext()
	winner, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	giveaway, err := testutil.SampleGiveaway(ctx, &entity.Giveaway{
		MaxEntries: sql.NullInt64{Valid: true, Int64: 10},
	})
	require.NoError(t, err)

	giveawayRepo := repository.NewGiveawayRepository()
	require.NoError(t, giveawayRepo.SetWinner(ctx, giveaway.ID, winner.ID, time.Now()))

	giveaway.Title = "New title"
	giveaway.IsActive = false
	giveaway.TicketPrice = 0
	giveaway.MaxEntries = sql.NullInt64{}
	giveaway.WinnerID = sql.NullString{}
	require.NoError(t, giveawayRepo.UpdateByID(ctx, giveaway.ID, &giveaway))

	got, err := giveawayRepo.GetByID(ctx, giveaway.ID)
	require.NoError(t, err)
	require.Equal(t, "New title", got.Title)
	require.False(t, got.IsActive)
	require.Equal(t, int64(0), got.TicketPrice)
	require.False(t, got.MaxEntries.Valid)
	require.Equal(t, winner.ID, got.WinnerID.String)
}

func Test_giveawayRepository_GetActive(t *testing.T) {
	ctx := testutil.MockContext()
	now := time.Now()

	later, err := testutil.SampleGiveaway(ctx, &entity.Giveaway{EndDate: now.Add(48 * time.Hour)})
	require.NoError(t, err)
	sooner, err := testutil.SampleGiveaway(ctx, &entity.Giveaway{EndDate: now.Add(2 * time.Hour)})
	require.NoError(t, err)
	_, err = testutil.SampleGiveaway(ctx, &entity.Giveaway{EndDate: now.Add(-time.Hour)})
	require.NoError(t, err)

	inactive, err := testutil.SampleGiveaway(ctx, nil)
	require.NoError(t, err)
	inactive.IsActive = false
	giveawayRepo := repository.NewGiveawayRepository()
	require.NoError(t, giveawayRepo.UpdateByID(ctx, inactive.ID, &inactive))

	active, err := giveawayRepo.GetActive(ctx, now)
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, sooner.ID, active[0].ID)
	require.Equal(t, later.ID, active[1].ID)

	count, err := giveawayRepo.CountActive(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func Test_giveawayRepository_GetRecentWithWinner(t *testing.T) {
	ctx := testutil.MockContext()
	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	giveawayRepo := repository.NewGiveawayRepository()
	now := time.Now()

	var ids []string
	for i := 0; i < 3; i++ {
		g, err := testutil.SampleGiveaway(ctx, nil)
		require.NoError(t, err)
		require.NoError(t, giveawayRepo.SetWinner(ctx, g.ID, user.ID, now.Add(time.Duration(i)*time.Minute)))
		ids = append(ids, g.ID)
	}

	_, err = testutil.SampleGiveaway(ctx, nil)
	require.NoError(t, err)

	recent, err := giveawayRepo.GetRecentWithWinner(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, ids[2], recent[0].ID)
	require.Equal(t, ids[1], recent[1].ID)
	require.Equal(t, user.ID, recent[0].Winner.ID)

	won, err := giveawayRepo.GetWonByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, won, 3)
}
