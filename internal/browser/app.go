//go:build js && wasm

package browser

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"syscall/js"
	"time"

	"github.com/woozymasta/winemap/internal/config"
	"github.com/woozymasta/winemap/internal/listing"
	"github.com/woozymasta/winemap/internal/store"
	"github.com/woozymasta/winemap/internal/widget"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ConfigPath is where the page fetches the widget configuration from.
const ConfigPath = "config.json"

// Run fetches the configuration, creates the map and loads the geodata once
// the map style is ready. It returns after the widget is ready or unavailable.
// Page callbacks keep running on the JS event loop afterwards.
func Run(ctx context.Context, timeout time.Duration) error {
	base, err := url.Parse(js.Global().Get("location").Get("href").String())
	if err != nil {
		return errors.Wrap(err, "page location")
	}

	client := &http.Client{Timeout: timeout}

	cfg, err := fetchConfig(ctx, client, base.ResolveReference(&url.URL{Path: ConfigPath}))
	if err != nil {
		ShowError(config.Default().Listing.Container, listing.LoadError)
		return err
	}

	m := NewMapbox(cfg)
	w := widget.New(cfg, m)
	sidebar := NewSidebar(w)
	sidebar.Render()

	dataURL, err := base.Parse(cfg.Data.Path)
	if err != nil {
		return errors.Wrapf(err, "data path %q", cfg.Data.Path)
	}

	select {
	case <-m.Loaded():
	case <-ctx.Done():
		return ctx.Err()
	}

	// events during the fetch are rejected by the widget until it is ready
	err = w.Load(ctx, store.NewLoader(client), dataURL.String())
	sidebar.Render()

	return err
}

func fetchConfig(ctx context.Context, client *http.Client, u *url.URL) (*config.Config, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch config")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch config: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	cfg, err := config.FromJSON(data)
	if err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	log.Debug().Str("url", u.String()).Int("attributes", len(cfg.Attributes)).Msg("Config loaded")

	return cfg, nil
}
