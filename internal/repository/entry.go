package repository

import (
	"context"

	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/pkg/xcontext"
)

type EntryRepository interface {
	Create(ctx context.Context, data *entity.Entry) error
	Get(ctx context.Context, userID, giveawayID string) (*entity.Entry, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.Entry, error)
	GetByGiveawayID(ctx context.Context, giveawayID string) ([]entity.Entry, error)
	CountByGiveawayID(ctx context.Context, giveawayID string) (int64, error)
	CountByGiveawayIDs(ctx context.Context, giveawayIDs []string) (map[string]int64, error)
	Count(ctx context.Context) (int64, error)
	DeleteByGiveawayID(ctx context.Context, giveawayID string) error
}

type entryRepository struct{}

func NewEntryRepository() *entryRepository {
	return &entryRepository{}
}

func (r *entryRepository) Create(ctx context.Context, data *entity.Entry) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *entryRepository) Get(ctx context.Context, userID, giveawayID string) (*entity.Entry, error) {
	var result entity.Entry
	err := xcontext.DB(ctx).
		Where("user_id=? AND giveaway_id=?", userID, giveawayID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *entryRepository) GetByUserID(ctx context.Context, userID string) ([]entity.Entry, error) {
	var result []entity.Entry
	err := xcontext.DB(ctx).
		Preload("Giveaway").
		Where("user_id=?", userID).
		Order("entered_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetByGiveawayID returns entries in insertion order, so that a seeded draw is
// reproducible.
func (r *entryRepository) GetByGiveawayID(ctx context.Context, giveawayID string) ([]entity.Entry, error) {
	var result []entity.Entry
	err := xcontext.DB(ctx).
		Where("giveaway_id=?", giveawayID).
		Order("entered_at ASC").Order("id").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *entryRepository) CountByGiveawayID(ctx context.Context, giveawayID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Entry{}).
		Where("giveaway_id=?", giveawayID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *entryRepository) CountByGiveawayIDs(
	ctx context.Context, giveawayIDs []string,
) (map[string]int64, error) {
	result := map[string]int64{}
	if len(giveawayIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		GiveawayID string
		Count      int64
	}

	err := xcontext.DB(ctx).Model(&entity.Entry{}).
		Select("giveaway_id, COUNT(*) AS count").
		Where("giveaway_id IN (?)", giveawayIDs).
		Group("giveaway_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.GiveawayID] = row.Count
	}

	return result, nil
}

func (r *entryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.Entry{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *entryRepository) DeleteByGiveawayID(ctx context.Context, giveawayID string) error {
	return xcontext.DB(ctx).Delete(&entity.Entry{}, "giveaway_id=?", giveawayID).Error
}
