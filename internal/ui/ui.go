// Package ui embeds the built frontend bundle. The dist directory is
// produced by the frontend build and committed alongside the Go sources so
// the server binary is self-contained.
package ui

import "embed"

//go:embed dist
var DistFS embed.FS
