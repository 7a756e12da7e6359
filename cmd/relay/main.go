package main

import (
	"os"

	"pindrop/internal/config"
	"pindrop/internal/logging"
	"pindrop/internal/provider/nominatim"
	"pindrop/internal/server"
	"pindrop/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//	@title			Pin Drop Relay API
//	@version		1.0
//	@description	Same-origin relay in front of the reverse-geocoding provider.
//	@BasePath		/
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logging.Setup(config.LogLevel, config.LogPretty, os.Stderr)
	if config.GinMode != "" {
		gin.SetMode(config.GinMode)
	}

	// Initialize layers
	upstream := nominatim.NewClient(config.UpstreamURL, config.UpstreamUserAgent, config.UpstreamTimeout)
	reverseGeocodeService := service.NewReverseGeoCodeService(upstream)

	r := server.NewRouter(config, reverseGeocodeService)

	log.Info().Str("address", config.ServerAddress).Str("upstream", config.UpstreamURL).Msg("relay listening")
	if err := r.Run(config.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("relay stopped")
	}
}
