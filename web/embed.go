// Package web embeds the HTML templates and static assets of the expense tracker.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

// TemplatesFS embeds HTML templates for server-side rendering.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds static assets (css).
//
//go:embed static/*
var StaticFS embed.FS

// Templates parses every embedded template. Each page is addressable by its
// file name, e.g. "list-page.html".
func Templates() (*template.Template, error) {
	return template.ParseFS(TemplatesFS, "templates/*.html")
}

// Static returns the static assets rooted at the static directory.
func Static() (fs.FS, error) {
	return fs.Sub(StaticFS, "static")
}
