package main

import (
	"context"
	"log"
	"os"

	"github.com/WAVY91/front-project/internal/buildinfo"
	"github.com/WAVY91/front-project/internal/client/cli"
	"github.com/WAVY91/front-project/internal/client/config"
	"github.com/WAVY91/front-project/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
