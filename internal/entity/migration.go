package entity

import (
	"context"

	"github.com/questx-lab/giveaway/pkg/xcontext"
)

// Migration records the last applied named migrator.
type Migration struct {
	Version string `gorm:"primarykey"`
}

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Giveaway{},
		&Entry{},
		&Transaction{},
		&Migration{},
	)
}
