// Package assets embeds the widget page.
package assets

import _ "embed"

// Index is the bundled page produced by cmd/minify.
//
//go:embed index.html
var Index []byte
