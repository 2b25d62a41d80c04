package testutil

import (
	"context"
	"database/sql"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/internal/repository"
	"github.com/questx-lab/giveaway/pkg/xcontext"
)

// SampleUser creates a new user in database with a random id and the starting
// balance, plus the opening ledger row of that balance. The sample user can be
// overwritten by non-zero fields of init.
func SampleUser(ctx context.Context, init *entity.User) (entity.User, error) {
	sample := &entity.User{
		ID:              uuid.NewString(),
		Email:           sql.NullString{Valid: true, String: uuid.NewString() + "@example.com"},
		FirstName:       "Sample",
		LastName:        "User",
		CurrencyBalance: xcontext.Configs(ctx).Giveaway.StartingBalance,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewUserRepository().Create(ctx, sample); err != nil {
		return *sample, err
	}

	if sample.CurrencyBalance != 0 {
		err := repository.NewTransactionRepository().Create(ctx, &entity.Transaction{
			Base:            entity.Base{ID: uuid.NewString()},
			UserID:          sample.ID,
			Amount:          sample.CurrencyBalance,
			TransactionType: entity.OpeningBalanceTransaction,
			Description:     "Opening balance",
		})
		if err != nil {
			return *sample, err
		}
	}

	return *sample, nil
}

// SampleGiveaway creates an active giveaway which started an hour ago and ends
// in a day. The sample giveaway can be overwritten by non-zero fields of init.
//
// Zero values such as IsActive=false cannot be expressed by init, update the
// returned giveaway instead.
func SampleGiveaway(ctx context.Context, init *entity.Giveaway) (entity.Giveaway, error) {
	now := time.Now()
	sample := &entity.Giveaway{
		Base:        entity.Base{ID: uuid.NewString()},
		Title:       "Sample giveaway",
		Description: "A giveaway for testing",
		Prize:       "A shiny prize",
		StartDate:   now.Add(-time.Hour),
		EndDate:     now.Add(24 * time.Hour),
		IsActive:    true,
		TicketPrice: xcontext.Configs(ctx).Giveaway.DefaultTicketPrice,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := repository.NewGiveawayRepository().Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

// SampleEntry records an entry of user into giveaway without touching the
// balance or the ledger.
func SampleEntry(ctx context.Context, userID, giveawayID string, costPaid int64) (entity.Entry, error) {
	sample := &entity.Entry{
		Base:       entity.Base{ID: uuid.NewString()},
		UserID:     userID,
		GiveawayID: giveawayID,
		EnteredAt:  time.Now(),
		CostPaid:   costPaid,
	}

	if err := repository.NewEntryRepository().Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
