package handlers

import (
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/shopcheck/internal/services"
)

// Site is one country storefront of the marketplace
type Site struct {
	Code string
	Name string
}

// DefaultSites are the storefronts the search pages offer. The first one is
// used when no site is chosen.
func DefaultSites() []Site {
	return []Site{
		{Code: "MLA", Name: "Argentina"},
		{Code: "MCO", Name: "Colombia"},
		{Code: "MLM", Name: "México"},
		{Code: "MLC", Name: "Chile"},
	}
}

// SearchHandler serves the marketplace home (/search-home) and its results
// page (/search)
type SearchHandler struct {
	template *template.Template
	catalog  services.Catalog
	sites    []Site
}

type SearchData struct {
	Page
	Site    Site
	Sites   []Site
	Query   string
	Results []string
}

func NewSearchHandler(fsys fs.FS, catalog services.Catalog, sites []Site) (*SearchHandler, error) {
	tmpl, err := parsePage(fsys, "search.html")
	if err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		sites = DefaultSites()
	}
	return &SearchHandler{template: tmpl, catalog: catalog, sites: sites}, nil
}

func (h *SearchHandler) site(code string) Site {
	for _, s := range h.sites {
		if strings.EqualFold(s.Code, code) {
			return s
		}
	}
	return h.sites[0]
}

func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	data := SearchData{
		Page:  Page{Title: "Mercado Libre"},
		Site:  h.site(q.Get("site")),
		Sites: h.sites,
	}

	if r.URL.Path != "/search" {
		render(w, h.template, "search-home.html", http.StatusOK, data)
		return
	}

	data.Query = strings.TrimSpace(q.Get("as_word"))
	data.Results = h.catalog.Search(data.Query)
	data.Title = data.Query + " | Mercado Libre"

	logrus.WithFields(logrus.Fields{
		"site":    data.Site.Code,
		"query":   data.Query,
		"results": len(data.Results),
	}).Debug("Search served")
	render(w, h.template, "search-results.html", http.StatusOK, data)
}
