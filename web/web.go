// Package web holds the server-rendered dashboard page.
package web

import (
	"embed"
	"html/template"
	"strconv"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// DashboardPage is the template name of the dashboard.
const DashboardPage = "dashboard.html"

// Templates parses the embedded templates with the page helpers.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}

// Funcs are the helpers available in the templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"germanDate": germanDate,
		"grade":      grade,
		"percent":    percent,
	}
}

// germanDate turns 2024-09-30 into 30.09.2024; other input is returned as is.
func germanDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02.01.2006")
}

func grade(g *float64) string {
	if g == nil {
		return ""
	}
	return decimalComma(*g)
}

func percent(p float64) string {
	return decimalComma(p) + " %"
}

func decimalComma(f float64) string {
	return strings.Replace(strconv.FormatFloat(f, 'f', -1, 64), ".", ",", 1)
}
