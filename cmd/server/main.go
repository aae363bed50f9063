package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/winemap/internal/config"
	"github.com/woozymasta/winemap/internal/logger"
	"github.com/woozymasta/winemap/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string        `short:"c" long:"config"   env:"CONFIG_FILE"    description:"Path to configuration file"           default:"config.yaml"`
	Addr       string        `short:"a" long:"addr"     env:"LISTEN_ADDRESS" description:"Address to listen on"                 default:"0.0.0.0"`
	BuildDir   string        `short:"b" long:"build"    env:"BUILD_DIR"      description:"Directory with widget.wasm and wasm_exec.js" default:"build"`
	Port       int           `short:"p" long:"port"     env:"LISTEN_PORT"    description:"Port to listen on"                    default:"8080"`
	Timeout    time.Duration `short:"t" long:"timeout"  env:"FETCH_TIMEOUT"  description:"Upstream geodata fetch timeout"       default:"15s"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	srvCtx, err := server.NewServerContext(cfg, &http.Client{Timeout: opts.Timeout}, opts.BuildDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Str("title", cfg.Title).
		Str("build_dir", opts.BuildDir).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, srvCtx.Routes()); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
