package migration

import (
	"context"

	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/pkg/xcontext"
)

const transactionGiveawayIndex = "idx_transactions_giveaway_id"

// migrate0001 indexes the giveaway of ledger records, it is used when a
// giveaway is deleted.
func migrate0001(ctx context.Context) error {
	db := xcontext.DB(ctx)
	if db.Migrator().HasIndex(&entity.Transaction{}, transactionGiveawayIndex) {
		return nil
	}

	return db.Exec("CREATE INDEX " + transactionGiveawayIndex + " ON transactions (giveaway_id)").Error
}
