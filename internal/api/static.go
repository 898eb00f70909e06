package api

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
)

// StaticFS holds the page template and stylesheet
//
//go:embed static
var StaticFS embed.FS

// SetupStaticRoutes loads the page template and serves the stylesheet
func SetupStaticRoutes(r *gin.Engine) error {
	tmpl, err := template.ParseFS(StaticFS, "static/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/static/app.css", func(c *gin.Context) {
		c.Header("Content-Type", "text/css")
		c.FileFromFS("static/app.css", http.FS(StaticFS))
	})

	return nil
}
