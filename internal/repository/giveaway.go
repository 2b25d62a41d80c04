package repository

import (
	"context"
	"time"

	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"gorm.io/gorm"
)

type GiveawayRepository interface {
	Create(ctx context.Context, data *entity.Giveaway) error
	UpdateByID(ctx context.Context, id string, data *entity.Giveaway) error
	UpdateImageURL(ctx context.Context, id, imageURL string) error
	DeleteByID(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Giveaway, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Giveaway, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.Giveaway, error)
	GetActive(ctx context.Context, now time.Time) ([]entity.Giveaway, error)
	GetRecentWithWinner(ctx context.Context, limit int) ([]entity.Giveaway, error)
	GetWonByUserID(ctx context.Context, userID string) ([]entity.Giveaway, error)
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)

	// SetWinner writes the winner only if the giveaway has none yet. It returns
	// gorm.ErrRecordNotFound if no row was updated.
	SetWinner(ctx context.Context, id, winnerID string, selectedAt time.Time) error
}

type giveawayRepository struct{}

func NewGiveawayRepository() *giveawayRepository {
	return &giveawayRepository{}
}

func (r *giveawayRepository) Create(ctx context.Context, data *entity.Giveaway) error {
	return xcontext.DB(ctx).Create(data).Error
}

// UpdateByID overwrites the editable columns, zero values included. Winner
// columns are never touched here.
func (r *giveawayRepository) UpdateByID(ctx context.Context, id string, data *entity.Giveaway) error {
	tx := xcontext.DB(ctx).Model(&entity.Giveaway{}).Where("id=?", id).
		Select("title", "description", "prize", "start_date", "end_date",
			"max_entries", "is_active", "ticket_price").
		Updates(data)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *giveawayRepository) UpdateImageURL(ctx context.Context, id, imageURL string) error {
	tx := xcontext.DB(ctx).Model(&entity.Giveaway{}).Where("id=?", id).Update("image_url", imageURL)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *giveawayRepository) DeleteByID(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).Delete(&entity.Giveaway{}, "id=?", id)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *giveawayRepository) GetByID(ctx context.Context, id string) (*entity.Giveaway, error) {
	var result entity.Giveaway
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *giveawayRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Giveaway, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var result []entity.Giveaway
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *giveawayRepository) GetList(ctx context.Context, offset, limit int) ([]entity.Giveaway, error) {
	var result []entity.Giveaway
	err := xcontext.DB(ctx).Order("created_at DESC").Order("id").
		Offset(offset).Limit(limit).Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *giveawayRepository) GetActive(ctx context.Context, now time.Time) ([]entity.Giveaway, error) {
	var result []entity.Giveaway
	err := xcontext.DB(ctx).
		Where("is_active=? AND end_date>=?", true, now).
		Order("end_date ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *giveawayRepository) GetRecentWithWinner(ctx context.Context, limit int) ([]entity.Giveaway, error) {
	var result []entity.Giveaway
	err := xcontext.DB(ctx).
		Preload("Winner").
		Where("winner_id IS NOT NULL").
		Order("winner_selected_at DESC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *giveawayRepository) GetWonByUserID(ctx context.Context, userID string) ([]entity.Giveaway, error) {
	var result []entity.Giveaway
	err := xcontext.DB(ctx).
		Where("winner_id=?", userID).
		Order("winner_selected_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *giveawayRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.Giveaway{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *giveawayRepository) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Giveaway{}).
		Where("is_active=? AND end_date>=?", true, now).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *giveawayRepository) SetWinner(
	ctx context.Context, id, winnerID string, selectedAt time.Time,
) error {
	tx := xcontext.DB(ctx).Model(&entity.Giveaway{}).
		Where("id=? AND winner_id IS NULL", id).
		Updates(map[string]any{
			"winner_id":          winnerID,
			"winner_selected_at": selectedAt,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
