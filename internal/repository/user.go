package repository

import (
	"context"

	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, data *entity.User) error
	UpdateProfileByID(ctx context.Context, id string, data *entity.User) error
	UpdateAdminByID(ctx context.Context, id string, isAdmin bool) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetList(ctx context.Context, offset, limit int) ([]entity.User, error)
	Count(ctx context.Context) (int64, error)

	// DecreaseBalance subtracts amount only if the balance covers it. It returns
	// gorm.ErrRecordNotFound otherwise.
	DecreaseBalance(ctx context.Context, id string, amount int64) error
	IncreaseBalance(ctx context.Context, id string, amount int64) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, data *entity.User) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *userRepository) UpdateProfileByID(ctx context.Context, id string, data *entity.User) error {
	updateMap := map[string]any{}
	if data.Email.Valid {
		updateMap["email"] = data.Email
	}

	if data.FirstName != "" {
		updateMap["first_name"] = data.FirstName
	}

	if data.LastName != "" {
		updateMap["last_name"] = data.LastName
	}

	if data.ProfileImageURL != "" {
		updateMap["profile_image_url"] = data.ProfileImageURL
	}

	if len(updateMap) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Updates(updateMap).Error
}

func (r *userRepository) UpdateAdminByID(ctx context.Context, id string, isAdmin bool) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).Where("id=?", id).Update("is_admin", isAdmin)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var record entity.User
	if err := xcontext.DB(ctx).Where("id=?", id).Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var records []entity.User
	if err := xcontext.DB(ctx).Where("id IN (?)", ids).Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userRepository) GetList(ctx context.Context, offset, limit int) ([]entity.User, error) {
	var records []entity.User
	err := xcontext.DB(ctx).Order("created_at DESC").Order("id").
		Offset(offset).Limit(limit).Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.User{}).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *userRepository) DecreaseBalance(ctx context.Context, id string, amount int64) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=? AND currency_balance>=?", id, amount).
		Update("currency_balance", gorm.Expr("currency_balance-?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *userRepository) IncreaseBalance(ctx context.Context, id string, amount int64) error {
	tx := xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", id).
		Update("currency_balance", gorm.Expr("currency_balance+?", amount))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
