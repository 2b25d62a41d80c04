package main

import "github.com/urfave/cli/v2"

func (s *srv) loadApp() {
	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to the TOML config file",
		EnvVars: []string{"CONFIG_FILE"},
	}

	app := cli.NewApp()
	app.Action = cli.ShowAppHelp
	app.Name = "Giveaway"
	app.Usage = "Sweepstakes giveaway backend"
	app.Commands = []*cli.Command{
		{
			Action:      s.startApi,
			Name:        "api",
			Usage:       "Start service api",
			Flags:       []cli.Flag{configFlag},
			Category:    "Api",
			Description: `Used for start service api, it serves both public and admin apis.`,
		},
		{
			Action: s.startMigrate,
			Name:   "migrate",
			Usage:  "Migrate the database",
			Flags: []cli.Flag{
				configFlag,
				&cli.StringFlag{
					Name:  "version",
					Usage: "Apply only the given migrator, apply every pending migrator if empty",
				},
			},
			Category:    "Database",
			Description: `Used to create or upgrade the database schema.`,
		},
	}

	s.app = app
}
