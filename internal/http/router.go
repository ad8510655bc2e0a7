// README: HTTP router registration.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"roam/internal/http/handlers"
	"roam/internal/http/middleware"
	"roam/internal/infra"
	"roam/internal/keys"
	"roam/internal/maps"
)

type RouterDeps struct {
	Plans      handlers.PlanService
	Keys       *keys.Service
	Geo        *maps.AmapService
	Routes     *maps.RouteService
	Speech     handlers.Transcriber
	Verifier   infra.TokenVerifier
	Log        *zap.Logger
	GenTimeout time.Duration
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log))
	r.Use(middleware.Logging(deps.Log))
	r.Use(middleware.Auth(deps.Verifier))

	travel := handlers.NewTravelHandler(deps.Plans, deps.Geo, deps.Routes, deps.GenTimeout)
	r.POST("/api/travel/plan", travel.CreatePlan)
	r.GET("/api/travel/plans/:userId", travel.ListPlans)
	r.GET("/api/travel/plan/:planId", travel.GetPlan)
	r.DELETE("/api/travel/plan/:planId", travel.DeletePlan)
	r.GET("/api/travel/poi", travel.POI)
	r.GET("/api/travel/geocode", travel.Geocode)
	r.GET("/api/travel/estimate", travel.Estimate)

	cfg := handlers.NewConfigHandler(deps.Keys)
	r.GET("/api/config/keys", cfg.GetKeys)
	r.POST("/api/config/keys", cfg.SaveKeys)

	if deps.Speech != nil {
		sp := handlers.NewSpeechHandler(deps.Speech)
		r.POST("/api/speech/recognize", sp.Recognize)
		r.POST("/api/speech/parse", sp.Parse)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
