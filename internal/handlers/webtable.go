package handlers

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/themizzi/shopcheck/internal/models"
)

// WebTableHandler serves the country table practice page
type WebTableHandler struct {
	template  *template.Template
	countries []models.Country
}

type WebTableData struct {
	Page
	Countries []models.Country
}

func NewWebTableHandler(fsys fs.FS, countries []models.Country) (*WebTableHandler, error) {
	tmpl, err := parsePage(fsys, "webtable.html")
	if err != nil {
		return nil, err
	}
	return &WebTableHandler{template: tmpl, countries: append([]models.Country(nil), countries...)}, nil
}

func (h *WebTableHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	data := WebTableData{
		Page:      Page{Title: "Automation Practice - Web Table"},
		Countries: h.countries,
	}
	render(w, h.template, "webtable.html", http.StatusOK, data)
}
