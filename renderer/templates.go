package renderer

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.md
var templatesFS embed.FS

// templates holds the markdown templates, named after their file.
var templates = mustSub(templatesFS, "templates")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
