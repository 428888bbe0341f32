package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/playautopublish/console-backend/internal/api/http"
	apimw "github.com/playautopublish/console-backend/internal/api/http/middleware"
	authhttp "github.com/playautopublish/console-backend/internal/auth/http"
	authmw "github.com/playautopublish/console-backend/internal/auth/middleware"
	authservice "github.com/playautopublish/console-backend/internal/auth/service"
	notifhttp "github.com/playautopublish/console-backend/internal/notifications/http"
	projhttp "github.com/playautopublish/console-backend/internal/projects/http"
	projservice "github.com/playautopublish/console-backend/internal/projects/service"
	pubhttp "github.com/playautopublish/console-backend/internal/publish/http"
	pubservice "github.com/playautopublish/console-backend/internal/publish/service"
	"github.com/playautopublish/console-backend/internal/state"
	"github.com/playautopublish/console-backend/internal/uploads"
	uploadhttp "github.com/playautopublish/console-backend/internal/uploads/http"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string

	Store  *state.Store
	Runner *pubservice.Runner
	Wizard *pubservice.Wizard
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	if len(dep.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     dep.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-Id"},
			ExposeHeaders:    []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version)
	healthHandler.RegisterRoutes(r)

	authService := authservice.NewAuthService(dep.Store)
	projectService := projservice.NewProjectService(dep.Store)
	intake := uploads.NewIntake(dep.Store)

	api := r.Group("/api/v1")
	api.Use(apimw.RequestIDMiddleware())

	private := api.Group("")
	private.Use(authmw.SessionAuthMiddleware(authService))

	authhttp.Register(api, private, authService)
	projhttp.Register(private, projectService)
	uploadhttp.Register(private, intake)
	pubhttp.Register(private, dep.Runner, dep.Wizard)
	notifhttp.Register(private, dep.Store)

	return r
}
