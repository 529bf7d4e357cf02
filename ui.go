package main

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

func uiHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// The static directory is compiled in; this cannot fail at runtime.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
