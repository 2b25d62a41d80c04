package model

import (
	"time"

	"github.com/questx-lab/giveaway/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:              user.ID,
		Email:           user.Email.String,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		DisplayName:     user.DisplayName(),
		ProfileImageURL: user.ProfileImageURL,
		IsAdmin:         user.IsAdmin,
		CurrencyBalance: user.CurrencyBalance,
		CreatedAt:       user.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertGiveaway(giveaway *entity.Giveaway, entryCount int64) Giveaway {
	if giveaway == nil {
		return Giveaway{}
	}

	result := Giveaway{
		ID:          giveaway.ID,
		Title:       giveaway.Title,
		Description: giveaway.Description,
		Prize:       giveaway.Prize,
		ImageURL:    giveaway.ImageURL,
		StartDate:   giveaway.StartDate.Format(DefaultTimeLayout),
		EndDate:     giveaway.EndDate.Format(DefaultTimeLayout),
		IsActive:    giveaway.IsActive,
		TicketPrice: giveaway.TicketPrice,
		EntryCount:  entryCount,
		CreatedAt:   giveaway.CreatedAt.Format(DefaultTimeLayout),
	}

	if giveaway.MaxEntries.Valid {
		maxEntries := giveaway.MaxEntries.Int64
		result.MaxEntries = &maxEntries
	}

	if giveaway.WinnerID.Valid {
		result.WinnerID = giveaway.WinnerID.String
		if giveaway.Winner.ID != "" {
			winner := ConvertUser(&giveaway.Winner)
			result.Winner = &winner
		}
	}

	if giveaway.WinnerSelectedAt.Valid {
		result.WinnerSelectedAt = giveaway.WinnerSelectedAt.Time.Format(DefaultTimeLayout)
	}

	return result
}

func ConvertEntry(entry *entity.Entry) Entry {
	if entry == nil {
		return Entry{}
	}

	result := Entry{
		ID:         entry.ID,
		UserID:     entry.UserID,
		GiveawayID: entry.GiveawayID,
		EnteredAt:  entry.EnteredAt.Format(DefaultTimeLayout),
		CostPaid:   entry.CostPaid,
	}

	if entry.Giveaway.ID != "" {
		giveaway := ConvertGiveaway(&entry.Giveaway, 0)
		result.Giveaway = &giveaway
	}

	return result
}

func ConvertTransaction(tx *entity.Transaction) Transaction {
	if tx == nil {
		return Transaction{}
	}

	return Transaction{
		ID:              tx.ID,
		UserID:          tx.UserID,
		Amount:          tx.Amount,
		TransactionType: string(tx.TransactionType),
		Description:     tx.Description,
		GiveawayID:      tx.GiveawayID.String,
		CreatedAt:       tx.CreatedAt.Format(DefaultTimeLayout),
	}
}
