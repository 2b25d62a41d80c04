package entity

import "time"

type Entry struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_entries_user_giveaway"`
	User   User   `gorm:"foreignKey:UserID"`

	GiveawayID string   `gorm:"uniqueIndex:idx_entries_user_giveaway;index"`
	Giveaway   Giveaway `gorm:"foreignKey:GiveawayID"`

	EnteredAt time.Time
	// CostPaid is the ticket price at the moment of entry.
	CostPaid int64
}
