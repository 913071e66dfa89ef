package handlers

import (
	"embed"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates
var templateFS embed.FS

func pageTemplate(page string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/"+page))
}

func renderPage(w http.ResponseWriter, tmpl *template.Template, data interface{}) {
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		log.Println("Template render error:", err)
	}
}
