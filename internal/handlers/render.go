package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/models"
)

var templateFuncs = template.FuncMap{
	"price": models.FormatPrice,
}

// Page carries the fields the shared layout renders
type Page struct {
	Title     string
	Heading   string
	CartCount int
	Error     string
}

// parsePage parses one page template together with the shared layout
func parsePage(fsys fs.FS, file string) (*template.Template, error) {
	tmpl, err := template.New(file).Funcs(templateFuncs).ParseFS(fsys, "layout.html", file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
	}
	return tmpl, nil
}

// render executes name with status. Template errors are logged and reported
// as a 500 before anything is written.
func render(w http.ResponseWriter, tmpl *template.Template, name string, status int, data any) {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		logrus.WithError(err).WithField("template", name).Error("Error rendering template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprint(w, b.String())
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slug turns a product name into the id suffix of its buttons,
// e.g. "sauce-labs-backpack"
func slug(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// localPath returns target when it is a path on this site, fallback otherwise
func localPath(target, fallback string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.Contains(target, "\\") {
		return target
	}
	return fallback
}
