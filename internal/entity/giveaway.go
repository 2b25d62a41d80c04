package entity

import (
	"database/sql"
	"time"
)

type Giveaway struct {
	Base

	Title       string `gorm:"size:200"`
	Description string
	Prize       string `gorm:"size:500"`
	ImageURL    string

	StartDate  time.Time
	EndDate    time.Time `gorm:"index"`
	MaxEntries sql.NullInt64

	IsActive    bool
	TicketPrice int64

	// WinnerID is written at most once, see GiveawayRepository.SetWinner.
	WinnerID         sql.NullString
	Winner           User `gorm:"foreignKey:WinnerID"`
	WinnerSelectedAt sql.NullTime
}

func (g *Giveaway) IsEnded(now time.Time) bool {
	return now.After(g.EndDate)
}

func (g *Giveaway) HasWinner() bool {
	return g.WinnerID.Valid
}
