package routes

import (
	"embed"
	"html/template"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Laizra/Call-tracker-app-R2024/internal/controllers"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

type Options struct {
	Logger           *zap.Logger
	CORSAllowOrigins []string
	Debug            bool
}

// NewRouter builds the engine with middleware, templates and every route.
func NewRouter(dc *controllers.DashboardController, opts Options) *gin.Engine {
	if !opts.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	lg := opts.Logger
	if lg == nil {
		lg = zap.NewNop()
	}

	router := gin.New()
	router.Use(RequestLogger(lg), gin.Recovery())
	if len(opts.CORSAllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSAllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.SetHTMLTemplate(Templates())

	DashboardRoutes(router, dc)
	APIRoutes(router, dc)
	return router
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFS, "templates/*.tmpl"))
}

// DashboardRoutes registers the HTML page and its form posts.
func DashboardRoutes(router *gin.Engine, dc *controllers.DashboardController) {
	router.GET("/", dc.Index)
	router.POST("/day", dc.SelectDay)
	router.POST("/rows", dc.AddRow)
	router.POST("/rows/delete", dc.DeleteRows)
	router.POST("/save", dc.SaveChanges)

	router.GET("/chart.png", dc.ChartPNG)
	router.GET("/export.csv", dc.ExportCSV)
	router.GET("/healthz", dc.Healthz)
}

// APIRoutes registers the JSON surface used by scripted clients.
func APIRoutes(router *gin.Engine, dc *controllers.DashboardController) {
	api := router.Group("/api")
	{
		api.GET("/state", dc.GetState)
		api.GET("/chart", dc.GetChart)
		api.PUT("/rows", dc.ReplaceRows)
		api.POST("/events", dc.PostEvent)
	}
}
