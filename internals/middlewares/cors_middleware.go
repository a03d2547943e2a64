package middlewares

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CorsMiddleware membuat middleware CORS.
// Origin operator console diambil dari ENV supaya deploy per-lingkungan gampang.
func CorsMiddleware() fiber.Handler {
	origins := os.Getenv("CORS_ALLOW_ORIGINS")
	if origins == "" {
		origins = "http://localhost:5173"
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-User-Id",
		AllowCredentials: true,
	})
}
