package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"schoolapi/src/database"
	"schoolapi/src/server"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "SchoolAPI CMD"
	app.Usage = "The SchoolAPI command line interface"

	app.Commands = []cli.Command{
		apiCMD,
		migrateCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	apiCMD = cli.Command{
		Name:        "api",
		Usage:       "run the API server",
		Action:      apiAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the HTTP API server`,
	}
	migrateCMD = cli.Command{
		Name:        "migrate",
		Usage:       "run database migrations",
		Action:      migrateAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Connect to the database and run schema migrations only`,
	}
)

func apiAction(_ *cli.Context) error {

	logrus.Info("Starting API CMD")
	logrus.WithField("cmd", "api")

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Error("Failed to connect to database")
		return err
	}

	server.StartServer(server.GetConfig().Port, server.BuildDeps())
	return nil
}

func migrateAction(_ *cli.Context) error {

	logrus.Info("Starting migrate CMD")
	logrus.WithField("cmd", "migrate")

	if err := database.InitMainDB(); err != nil {
		logrus.WithError(err).Error("Failed to run migrations")
		return err
	}

	logrus.Info("Migrations completed")
	return nil
}
