package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/questx-lab/giveaway/internal/entity"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"gorm.io/gorm"
)

type Migrator func(ctx context.Context) error

// Migrators are keyed by a four digits version. They must be idempotent.
var Migrators = map[string]Migrator{
	"0000": migrate0000,
	"0001": migrate0001,
	"0002": migrate0002,
}

// CurrentVersion returns the last applied version, or an empty string if no
// migrator has ever been applied.
func CurrentVersion(ctx context.Context) (string, error) {
	var m entity.Migration
	err := xcontext.DB(ctx).Order("version DESC").Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}

		return "", err
	}

	return m.Version, nil
}

// Migrate applies the given version and records it.
func Migrate(ctx context.Context, version string) error {
	migrator, ok := Migrators[version]
	if !ok {
		return fmt.Errorf("not found version %s", version)
	}

	if err := migrator(ctx); err != nil {
		return err
	}

	return xcontext.DB(ctx).Save(&entity.Migration{Version: version}).Error
}

// MigrateUp applies every version newer than the current one in order.
func MigrateUp(ctx context.Context) error {
	if err := entity.MigrateTable(ctx); err != nil {
		return err
	}

	current, err := CurrentVersion(ctx)
	if err != nil {
		return err
	}

	versions := make([]string, 0, len(Migrators))
	for v := range Migrators {
		versions = append(versions, v)
	}
	sort.Strings(versions)

	for _, v := range versions {
		if v <= current {
			continue
		}

		xcontext.Logger(ctx).Infof("Apply migration %s", v)
		if err := Migrate(ctx, v); err != nil {
			return fmt.Errorf("migration %s: %w", v, err)
		}
	}

	return nil
}
