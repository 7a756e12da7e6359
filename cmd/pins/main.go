package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pindrop/internal/cli"
	"pindrop/internal/config"
	"pindrop/internal/logging"
	"pindrop/internal/pinclient"
	"pindrop/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	configDir := flag.String("config", "./configs", "directory holding app.env")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stdout)
		os.Exit(2)
	}

	config, err := config.LoadConfig(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot load config:", err)
		os.Exit(1)
	}

	// the terminal UI owns the screen, so its logs go to a file
	var logOut io.Writer = os.Stderr
	if args[0] == "ui" {
		f, err := os.OpenFile("pins.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot open log file:", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logging.Setup(config.LogLevel, config.LogPretty, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := repository.Open(ctx, config)
	if err != nil {
		log.Error().Err(err).Str("driver", config.StoreDriver).Msg("cannot open store")
		os.Exit(1)
	}

	relay := pinclient.NewRelayClient(config.RelayURL, &http.Client{})

	code := cli.Run(ctx, args, cli.Deps{
		NewClient: func(opts ...pinclient.Option) *pinclient.Client {
			return pinclient.New(ctx, store, relay, opts...)
		},
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
	})
	closeStore()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
