package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/woozymasta/winemap/internal/config"
	"github.com/woozymasta/winemap/internal/logger"
	"github.com/woozymasta/winemap/internal/processor"
	"github.com/woozymasta/winemap/internal/store"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string        `short:"c" long:"config"  env:"CONFIG_FILE"   description:"Path to configuration file" default:"config.yaml"`
	Output     string        `short:"o" long:"out"     env:"DATA_FILE"     description:"Output file, defaults to data.file from config"`
	Timeout    time.Duration `short:"t" long:"timeout" env:"FETCH_TIMEOUT" description:"Download timeout" default:"15s"`
	Force      bool          `short:"f" long:"force"   description:"Force overwrite of existing files"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	dest := opts.Output
	if dest == "" {
		dest = cfg.Data.File
	}
	if dest == "" {
		dest = "data/map.geojson"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loader := store.NewLoader(&http.Client{Timeout: opts.Timeout})

	log.Info().
		Str("source", cfg.Data.URL).
		Str("dest", dest).
		Bool("force", opts.Force).
		Msg("Starting loader")

	if err := processor.ProcessLocations(ctx, loader, cfg, dest, opts.Force); err != nil {
		log.Fatal().Err(err).Msg("Failed to process locations")
	}

	log.Info().Msg("Loader finished successfully")
}
