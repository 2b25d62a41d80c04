package entity

import (
	"database/sql"

	"github.com/questx-lab/giveaway/pkg/enum"
)

type TransactionType string

var (
	TicketPurchaseTransaction = enum.New(TransactionType("ticket_purchase"))
	AdminGrantTransaction     = enum.New(TransactionType("admin_grant"))
	OpeningBalanceTransaction = enum.New(TransactionType("opening_balance"))
)

// Transaction is an append-only ledger record of a balance change. A negative
// amount is a spend.
type Transaction struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Amount          int64
	TransactionType TransactionType
	Description     string

	GiveawayID sql.NullString
	Giveaway   Giveaway `gorm:"foreignKey:GiveawayID"`
}
