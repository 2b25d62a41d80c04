package main

import (
	"github.com/questx-lab/giveaway/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}
	s.loadLogger()

	if err := s.loadDatabase(); err != nil {
		return err
	}

	version := cctx.String("version")
	if version == "" {
		return migration.MigrateUp(s.ctx)
	}

	return migration.Migrate(s.ctx, version)
}
