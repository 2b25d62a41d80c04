package migration

import (
	"database/sql"
	"testing"

	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/internal/repository"
	"github.com/questx-lab/giveaway/pkg/testutil"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestMigrateUp(t *testing.T) {
	ctx := testutil.MockContext()
	migrator := xcontext.DB(ctx).Migrator()

	version, err := CurrentVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, "", version)
	require.False(t, migrator.HasIndex(&entity.Transaction{}, transactionGiveawayIndex))

	// legacy signed up before opening rows existed, current already has one.
	legacy := &entity.User{
		ID:              "legacy",
		Email:           sql.NullString{Valid: true, String: "legacy@example.com"},
		CurrencyBalance: 900,
	}
	require.NoError(t, repository.NewUserRepository().Create(ctx, legacy))
	current, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, MigrateUp(ctx))

	version, err = CurrentVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, "0002", version)
	require.True(t, migrator.HasIndex(&entity.Transaction{}, transactionGiveawayIndex))

	txRepo := repository.NewTransactionRepository()
	txs, err := txRepo.GetByUserID(ctx, legacy.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, entity.OpeningBalanceTransaction, txs[0].TransactionType)
	require.Equal(t, xcontext.Configs(ctx).Giveaway.StartingBalance, txs[0].Amount)

	txs, err = txRepo.GetByUserID(ctx, current.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	// Running again is a no-op.
	require.NoError(t, MigrateUp(ctx))

	var count int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Migration{}).Count(&count).Error)
	require.Equal(t, int64(3), count)

	// Every migrator is idempotent on its own.
	require.NoError(t, migrate0001(ctx))
	require.NoError(t, migrate0002(ctx))
	txs, err = txRepo.GetByUserID(ctx, legacy.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
}

func TestMigrate_UnknownVersion(t *testing.T) {
	ctx := testutil.MockContext()
	require.Error(t, Migrate(ctx, "9999"))
}
