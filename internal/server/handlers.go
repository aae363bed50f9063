// Package server handles HTTP requests and middleware.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/woozymasta/winemap/internal/geo"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	etagCap        = 64
	geoJSONType    = "application/geo+json"
	upstreamKey    = "upstream"
	maxPayloadSize = 32 << 20
)

// payload is a cached upstream document.
type payload struct {
	etag string
	body []byte
}

// Routes returns the handler serving the widget.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/config.json", s.HandleConfig)
	mux.HandleFunc(s.Config.Data.Path, s.HandleData)
	mux.HandleFunc("/widget.wasm", s.HandleBuild)
	mux.HandleFunc("/wasm_exec.js", s.HandleBuild)
	mux.HandleFunc("/", s.HandleIndex)

	return RequestLogger(mux)
}

// HandleConfig serves the JSON configuration of the widget.
func (s *ServerContext) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.ConfigJSON)
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && strings.Contains(r.URL.Path, ".") {
		http.NotFound(w, r)
		return
	}

	etag := fmt.Sprintf(`"%x"`, len(s.IndexHTML))

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleBuild serves the compiled widget and its loader from the build directory.
func (s *ServerContext) HandleBuild(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(r.URL.Path)

	contentType := "text/javascript; charset=utf-8"
	if name == "widget.wasm" {
		contentType = "application/wasm"
	}

	if !s.serveFile(w, r, filepath.Join(s.BuildDir, name), contentType) {
		log.Warn().Str("path", name).Str("build_dir", s.BuildDir).Msg("Widget build artifact missing")
		http.NotFound(w, r)
	}
}

// HandleData serves the geodata document, from disk or from the cached upstream.
func (s *ServerContext) HandleData(w http.ResponseWriter, r *http.Request) {
	if s.Config.Data.File != "" {
		if !s.serveFile(w, r, s.Config.Data.File, geoJSONType) {
			http.NotFound(w, r)
		}
		return
	}

	p, err := s.upstream(r.Context())
	if err != nil {
		log.Error().Err(err).Str("url", s.Config.Data.URL).Msg("Failed to fetch upstream geodata")
		http.Error(w, "geodata unavailable", http.StatusBadGateway)
		return
	}

	if match := r.Header.Get("If-None-Match"); match == p.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", geoJSONType)
	w.Header().Set("ETag", p.etag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(p.body)
}

// upstream returns the cached upstream document, fetching it when expired.
// Documents that are not feature collections are rejected and not cached.
func (s *ServerContext) upstream(ctx context.Context) (*payload, error) {
	if v, ok := s.Cache.Get(upstreamKey); ok {
		return v.(*payload), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Config.Data.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return nil, err
	}

	features, _, err := geo.Decode(body)
	if err != nil {
		return nil, err
	}

	if small, err := s.Minifier.Bytes(geoJSONType, body); err == nil {
		body = small
	} else {
		log.Debug().Err(err).Msg("Serving geodata unminified")
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, int64(len(body)), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, time.Now().UnixNano(), 16)
	buf = append(buf, '"')

	p := &payload{body: body, etag: string(buf)}
	s.Cache.SetDefault(upstreamKey, p)

	log.Info().
		Str("url", s.Config.Data.URL).
		Int("features", len(features)).
		Int("bytes", len(body)).
		Msg("Upstream geodata cached")

	return p, nil
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}
