// Package web embeds the browser UI served at the site root.
package web

import "embed"

//go:embed index.html
var AssetsFS embed.FS
