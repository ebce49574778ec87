// Package web carries the UI assets compiled into the binary.
package web

import "embed"

// TemplatesFS holds the index page and the table/summary partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and page scripts mounted under /static/.
//
//go:embed static/*
var StaticFS embed.FS
