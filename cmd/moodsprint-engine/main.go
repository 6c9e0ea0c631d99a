package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/moodsprint/battle-engine/internal/constants"
	"github.com/moodsprint/battle-engine/internal/logging"
	"github.com/moodsprint/battle-engine/internal/service"
	"github.com/moodsprint/battle-engine/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}
	// Command output goes to stdout, logs to stderr.
	logging.SetOutput(os.Stderr)
	// A missing .env is fine; the environment and config file still apply.
	_ = godotenv.Load()
	if lvl := os.Getenv(constants.EnvLogLevel); lvl != "" {
		logging.SetLevel(lvl)
	}

	logging.Debug("starting", logging.Fields{constants.LogFieldVersion: version.String()})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "migrate":
		err = cmdMigrate(ctx, os.Args[2:])
	case "rotate":
		err = cmdRotate(ctx, os.Args[2:])
	case "simulate":
		err = cmdSimulate(ctx, os.Args[2:])
	case "version":
		printVersion()
	default:
		printUsage()
		os.Exit(2)
	}
	if err != nil {
		stop()
		logging.Fatal(os.Args[1]+" failed", err, logging.Fields{constants.LogFieldCode: service.ErrorCode(err)})
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: moodsprint-engine <command> [flags]

commands:
  migrate    create or update the engine tables
  rotate     generate every genre's monster roster for the current period
  simulate   play one battle with generated starter cards
  version    print build information`)
}

func printVersion() {
	fmt.Println("moodsprint-engine " + version.String())
}
