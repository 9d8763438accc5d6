package handlers

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed views/*.html
var viewsFS embed.FS

// Views parses the embedded page templates. Each page is addressed by its file name.
func Views() *template.Template {
	return template.Must(template.New("").ParseFS(viewsFS, "views/*.html"))
}

// page builds template data with the fields every page expects.
func page(title string, fields gin.H) gin.H {
	data := gin.H{"Title": title, "Errors": map[string]string(nil)}
	for k, v := range fields {
		data[k] = v
	}
	return data
}
