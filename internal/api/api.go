package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/farmaindex/backend-go/internal/api/handlers"
	"github.com/farmaindex/backend-go/internal/api/middleware"
	"github.com/farmaindex/backend-go/internal/repository"
	"github.com/farmaindex/backend-go/internal/service"
)

type Services struct {
	AnalysisService *service.AnalysisService
	RunService      *service.RunService
	ClientService   *service.ClientService
	ReportService   *service.ReportService
}

func NewRouter(services *Services, memberships repository.MembershipRepository, jwtSecret string, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	defaultOrigins := []string{"http://localhost:4200", "http://127.0.0.1:4200"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(middleware.Auth(jwtSecret, memberships))

	if services != nil {
		if services.ClientService != nil {
			clientHandler := handlers.NewClientHandler(services.ClientService)
			clientGroup := apiGroup.Group("/clientes")
			{
				clientGroup.GET("", clientHandler.List)
				clientGroup.GET("/:id", clientHandler.Get)
				clientGroup.POST("", middleware.RequireAdmin(), clientHandler.Create)
			}

			if services.AnalysisService != nil {
				analysisHandler := handlers.NewAnalysisHandler(services.AnalysisService, services.ReportService)
				clientGroup.POST("/:id/analises", analysisHandler.Create)

				if services.RunService != nil {
					runHandler := handlers.NewRunHandler(services.RunService)
					clientGroup.GET("/:id/analises", runHandler.ListForClient)
					clientGroup.GET("/:id/dashboard", runHandler.Dashboard)

					apiGroup.POST("/admin/cache/flush", middleware.RequireAdmin(), runHandler.FlushCache)

					runGroup := apiGroup.Group("/analises")
					{
						runGroup.GET("", runHandler.List)
						runGroup.GET("/:id", runHandler.Get)
						runGroup.GET("/:id/curvas", runHandler.Curves)
						runGroup.GET("/:id/export", analysisHandler.Export)
						runGroup.POST("/:id/relatorio", analysisHandler.Report)
					}
				}
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
