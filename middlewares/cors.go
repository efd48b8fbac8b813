package middlewares

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured origins ("*" or a comma separated list). With a
// wildcard, credentials are not advertised, so browsers send the session
// cookie only to explicitly listed origins.
func CORS(origins string) gin.HandlerFunc {
	conf := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader},
		MaxAge:       12 * time.Hour,
	}

	origins = strings.TrimSpace(origins)
	if origins == "" || origins == "*" {
		conf.AllowAllOrigins = true
	} else {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				conf.AllowOrigins = append(conf.AllowOrigins, o)
			}
		}
		conf.AllowCredentials = true
	}
	return cors.New(conf)
}
