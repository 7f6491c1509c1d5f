package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows browser clients from the configured origins. "*" allows any.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Authorization", "Content-Type", ActorHeader},
		ExposeHeaders: []string{"Content-Disposition", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		switch {
		case origin == "*":
			cfg.AllowAllOrigins = true
		case origin != "":
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	if cfg.AllowAllOrigins {
		cfg.AllowOrigins = nil
	} else if len(cfg.AllowOrigins) == 0 {
		// no browser origins configured
		return func(c *gin.Context) { c.Next() }
	}
	return cors.New(cfg)
}
