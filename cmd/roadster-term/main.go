package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"
	"github.com/golangdaddy/infiniteroad/pkg/asset"
	"github.com/golangdaddy/infiniteroad/pkg/config"
	"github.com/golangdaddy/infiniteroad/pkg/game"
	"github.com/golangdaddy/infiniteroad/pkg/terminal"
	"github.com/segmentio/ksuid"
)

func main() {
	configFile := flag.String("config", "roadster.yaml", "path to the YAML config file")
	envFile := flag.String("env", ".env", "path to an optional .env file")
	logFile := flag.String("log", "roadster-term.log", "log file; the terminal is busy drawing")
	flag.Parse()

	f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	log.SetOutput(f)
	log.SetPrefix("[" + ksuid.New().String() + "] ")

	if err := run(*configFile, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, envFile string) error {
	cfgLoader, err := config.Load(config.Options{File: configFile, EnvFile: envFile})
	if err != nil {
		return err
	}
	cfg := cfgLoader.Current()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	w, h := screen.Size()
	session := game.NewSession(cfg, asset.NewDirLoader(cfg.Assets.Dir), game.NewRealClock(), w, h)
	if err := session.Start(); err != nil {
		return err
	}
	defer session.Close()
	cfgLoader.Watch(session.Reload)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = terminal.NewApp(screen, session, cfg.Terminal.Hold).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
