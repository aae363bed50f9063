package server

import (
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/woozymasta/winemap/assets"
	"github.com/woozymasta/winemap/internal/config"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"github.com/tdewolff/minify/v2"
	minjson "github.com/tdewolff/minify/v2/json"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config     *config.Config
	Client     *http.Client
	Cache      *cache.Cache
	Minifier   *minify.M
	IndexHTML  []byte
	ConfigJSON []byte
	// BuildDir holds widget.wasm and wasm_exec.js.
	BuildDir string
}

// NewServerContext prepares the widget configuration and the geodata cache.
func NewServerContext(cfg *config.Config, client *http.Client, buildDir string) (*ServerContext, error) {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	m := minify.New()
	m.AddFuncRegexp(regexp.MustCompile(`[/+]json$`), minjson.Minify)

	source := "file"
	if cfg.Data.File == "" {
		source = "upstream"
	}

	log.Info().
		Int("attributes", len(cfg.Attributes)).
		Str("data_source", source).
		Str("data_path", cfg.Data.Path).
		Dur("cache_ttl", cfg.Data.CacheTTL).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:     cfg,
		Client:     client,
		Cache:      cache.New(cfg.Data.CacheTTL, 2*cfg.Data.CacheTTL),
		Minifier:   m,
		IndexHTML:  assets.Index,
		ConfigJSON: cfgJSON,
		BuildDir:   buildDir,
	}, nil
}
