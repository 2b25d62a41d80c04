// Package lifecycle holds the rules deciding whether a giveaway accepts
// entries and who wins it. Nothing here touches storage, every input is
// passed explicitly.
package lifecycle

import (
	"time"

	"github.com/questx-lab/giveaway/internal/entity"
)

// Randomizer returns a uniform value in [0, n).
type Randomizer interface {
	Intn(n int) int
}

// Draw is the outcome of a winner selection.
type Draw struct {
	GiveawayID string
	WinnerID   string
	EntryID    string
	SelectedAt time.Time
}

// CanEnter reports whether g accepts a new entry at now given its current
// number of entries.
func CanEnter(g *entity.Giveaway, entryCount int64, now time.Time) bool {
	if !g.IsActive {
		return false
	}

	if g.IsEnded(now) {
		return false
	}

	if g.HasWinner() {
		return false
	}

	if g.MaxEntries.Valid && entryCount >= g.MaxEntries.Int64 {
		return false
	}

	return true
}

// DrawWinner picks one of entries uniformly. It returns false without a draw
// if there is no entry or the giveaway already has a winner.
func DrawWinner(rand Randomizer, g *entity.Giveaway, entries []entity.Entry, now time.Time) (Draw, bool) {
	if g.HasWinner() || len(entries) == 0 {
		return Draw{}, false
	}

	entry := entries[rand.Intn(len(entries))]
	return Draw{
		GiveawayID: g.ID,
		WinnerID:   entry.UserID,
		EntryID:    entry.ID,
		SelectedAt: now,
	}, true
}
