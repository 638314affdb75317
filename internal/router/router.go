// Package router assembles the gin engine and route table.
package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-activities-api/internal/handler"
	"github.com/noah-isme/campus-activities-api/internal/middleware"
	"github.com/noah-isme/campus-activities-api/internal/models"
	"github.com/noah-isme/campus-activities-api/internal/service"
	"github.com/noah-isme/campus-activities-api/pkg/config"
	"github.com/noah-isme/campus-activities-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-activities-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-activities-api/pkg/middleware/requestid"
)

// Dependencies carries everything the route table needs.
type Dependencies struct {
	Config        *config.Config
	Logger        *zap.Logger
	Metrics       *service.MetricsService
	Authenticator middleware.Authenticator

	Auth         *handler.AuthHandler
	Activities   *handler.ActivityHandler
	Applications *handler.ApplicationHandler
	Requests     *handler.EmployeeRequestHandler
	Health       *handler.MetricsHandler
}

// New builds the engine with global middleware and every route mounted.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(deps.Metrics))
		r.GET("/metrics", deps.Health.Prometheus)
	}
	r.NoRoute(handler.NotFound)

	r.GET("/health", deps.Health.Health)
	r.GET("/ready", deps.Health.Ready)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(cfg.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	api := r.Group(prefix)
	api.GET("/health", deps.Health.Health)

	auth := api.Group("/auth")
	auth.POST("/register", deps.Auth.Register)
	auth.POST("/login", deps.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWT(deps.Authenticator))
	secured.GET("/auth/me", deps.Auth.Me)

	activities := secured.Group("/activities")
	activities.GET("", deps.Activities.List)
	activities.GET("/my-registrations", deps.Activities.MyRegistrations)
	activities.POST("/:id/register", deps.Activities.Register)

	applications := secured.Group("/applications")
	applications.POST("/submit", deps.Applications.Submit)
	applications.GET("/my-applications", deps.Applications.ListMine)
	staffApplications := applications.Group("", middleware.RequireRoles(models.RoleEmployee))
	staffApplications.GET("/all", deps.Applications.ListAll)
	staffApplications.PUT("/:id/status", deps.Applications.UpdateStatus)
	staffApplications.GET("/statistics", deps.Applications.Statistics)

	employee := secured.Group("/employee", middleware.RequireRoles(models.RoleEmployee))
	employee.POST("/requests/send", deps.Requests.Send)
	employee.GET("/requests/my-requests", deps.Requests.ListMine)
	employee.GET("/requests/statistics", deps.Requests.Statistics)
	employee.GET("/activities", deps.Activities.Roster)
	employee.POST("/activities/add", deps.Activities.Add)

	student := secured.Group("/student", middleware.RequireRoles(models.RoleStudent))
	student.GET("/requests", deps.Requests.ListForStudent)
	student.PUT("/requests/:id/respond", deps.Requests.Respond)

	return r
}
