package repository

import (
	"context"

	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/pkg/xcontext"
)

type TransactionRepository interface {
	Create(ctx context.Context, data *entity.Transaction) error
	GetByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.Transaction, error)
	SumAmountByUserID(ctx context.Context, userID string) (int64, error)

	// DetachGiveaway clears the giveaway reference of ledger rows, the rows
	// themselves are kept.
	DetachGiveaway(ctx context.Context, giveawayID string) error
}

type transactionRepository struct{}

func NewTransactionRepository() *transactionRepository {
	return &transactionRepository{}
}

func (r *transactionRepository) Create(ctx context.Context, data *entity.Transaction) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *transactionRepository) GetByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.Transaction, error) {
	var result []entity.Transaction
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").Order("id").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *transactionRepository) SumAmountByUserID(ctx context.Context, userID string) (int64, error) {
	var sum int64
	err := xcontext.DB(ctx).Model(&entity.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id=?", userID).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}

	return sum, nil
}

func (r *transactionRepository) DetachGiveaway(ctx context.Context, giveawayID string) error {
	return xcontext.DB(ctx).Model(&entity.Transaction{}).
		Where("giveaway_id=?", giveawayID).
		Update("giveaway_id", nil).Error
}
