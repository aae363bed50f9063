//go:build js && wasm

package main

import (
	"context"
	"os"
	"time"

	"github.com/woozymasta/winemap/internal/browser"
	"github.com/woozymasta/winemap/internal/logger"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

// Options are read from the argv the page passes to the Go runtime.
type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Timeout time.Duration `long:"timeout" description:"Fetch timeout" default:"30s"`
}

func main() {
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// the browser console has no color support
	opts.Logger.Format = "json"
	opts.Logger.Setup()

	if err := browser.Run(context.Background(), opts.Timeout); err != nil {
		log.Error().Err(err).Msg("Widget failed to start")
	}

	// keep callbacks alive
	select {}
}
