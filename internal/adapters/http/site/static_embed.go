package site

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
)

//go:embed static/*
var staticFS embed.FS

// FS returns an http.FileSystem for the embedded assets.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

var pageTemplate = template.Must(template.New("index.html.tmpl").Funcs(template.FuncMap{
	"num": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	"px":  func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
}).ParseFS(staticFS, "static/index.html.tmpl"))
