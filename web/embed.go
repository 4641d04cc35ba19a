package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

const (
	pageTemplates = "templates/*.tmpl"
	staticDir     = "static"
)

//go:embed templates/*.tmpl static/*
var assets embed.FS

// StaticFS serves the stylesheet under /static. It panics if the directory is missing from the binary.
func StaticFS() http.FileSystem {
	static, err := fs.Sub(assets, staticDir)
	if err != nil {
		panic(fmt.Sprintf("web: static assets not embedded: %v", err))
	}

	return http.FS(static)
}

// Templates parses the page templates; the page is executed by file name.
func Templates() *template.Template {
	return template.Must(template.ParseFS(assets, pageTemplates))
}
