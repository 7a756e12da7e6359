package server

import (
	"slices"

	_ "pindrop/docs"
	"pindrop/internal/config"
	"pindrop/internal/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter wires the relay routes and middleware.
func NewRouter(cfg config.Config, svc handler.GeoCodingService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.RequestLogger())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	reverseGeocodeHandler := handler.NewReverseGeocodeHandler(svc)

	r.GET("/health", handler.Health)
	r.GET("/reverse-geocode", reverseGeocodeHandler.ReverseGeocode)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "OPTIONS"}
	c.ExposeHeaders = []string{handler.RequestIDHeader}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}
