package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	pkgmiddleware "github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/middleware"
)

// CORS allows the extranet front-end origins. An empty list allows any origin.
func CORS(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Content-Length", "Accept", "Authorization",
			RequestIDHeader, pkgmiddleware.SessionIDHeader, "X-Requested-With",
		},
		ExposeHeaders: []string{
			"Content-Length", "Content-Type", RequestIDHeader,
		},
		MaxAge: 24 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}
	return cors.New(config)
}
