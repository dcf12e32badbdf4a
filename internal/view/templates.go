package view

import (
	"embed"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Cover images are stored as data URLs, which html/template refuses in src
// attributes unless marked safe. Anything that is not an image is dropped.
var funcs = template.FuncMap{
	"cover": func(s string) template.URL {
		if !strings.HasPrefix(s, "data:image/") {
			return ""
		}
		return template.URL(s)
	},
}

// Templates parses the embedded page fragments. gin renders them through
// SetHTMLTemplate; escaping comes from html/template.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
}

// Render executes the named fragment into w.
func Render(w io.Writer, name string, data any) error {
	return Templates().ExecuteTemplate(w, name, data)
}
