package migration

import (
	"context"

	"github.com/google/uuid"
	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/pkg/xcontext"
)

// migrate0002 writes an opening ledger row for users created before signup
// recorded one. The amount is the configured starting balance, which is what
// those users were given.
func migrate0002(ctx context.Context) error {
	db := xcontext.DB(ctx)
	opened := db.Model(&entity.Transaction{}).
		Select("user_id").
		Where("transaction_type=?", entity.OpeningBalanceTransaction)

	var userIDs []string
	err := db.Model(&entity.User{}).
		Where("id NOT IN (?)", opened).
		Pluck("id", &userIDs).Error
	if err != nil {
		return err
	}

	if len(userIDs) == 0 {
		return nil
	}

	amount := xcontext.Configs(ctx).Giveaway.StartingBalance
	txs := make([]entity.Transaction, 0, len(userIDs))
	for _, userID := range userIDs {
		txs = append(txs, entity.Transaction{
			Base:            entity.Base{ID: uuid.NewString()},
			UserID:          userID,
			Amount:          amount,
			TransactionType: entity.OpeningBalanceTransaction,
			Description:     "Opening balance",
		})
	}

	xcontext.Logger(ctx).Infof("Backfill opening balance of %d users", len(txs))
	return db.CreateInBatches(txs, 100).Error
}
