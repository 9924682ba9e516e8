package main

import (
	"log"
	"strings"
	"time"

	"artists/auth"
	"artists/config"
	"artists/db"
	"artists/handlers"
	"artists/models"
	"artists/ratelimit"
	"artists/regionals"
	"artists/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	config.Load()

	auth.Init()
	db.Init()
	models.Init()
	storage.Init()
	go regionals.StartSyncLoop()

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(handlers.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "PUT", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Rate-Limit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	router.Use((&handlers.CacheRouter{CacheTime: handlers.CacheNoCache}).Handler()) // No cache by default

	router.GET("/health", handlers.Health)

	// Auth endpoints stay outside the JWT and rate-limit middleware
	authGroup := router.Group("/api/v1/auth")
	authGroup.POST("/registrar", handlers.AuthRegister)
	authGroup.POST("/login", handlers.AuthLogin)
	authGroup.POST("/refresh", handlers.AuthRefresh)
	authGroup.POST("/logout", handlers.AuthLogout)

	api := router.Group("/api/v1")
	api.Use(auth.Middleware())
	api.Use(ratelimit.Middleware())
	authRouter := &auth.Router{Base: api}
	// Artist handlers
	authRouter.POST("/artistas", handlers.ArtistCreate)
	authRouter.GET("/artistas", handlers.ArtistList)
	authRouter.GET("/artistas/:id", handlers.ArtistGet)
	authRouter.PUT("/artistas/:id", handlers.ArtistUpdate)
	authRouter.DELETE("/artistas/:id", handlers.ArtistDelete)
	// Album handlers
	authRouter.POST("/albuns", handlers.AlbumCreate)
	authRouter.GET("/albuns", handlers.AlbumList)
	authRouter.GET("/albuns/:albumId", handlers.AlbumGet)
	authRouter.PUT("/albuns/:albumId", handlers.AlbumUpdate)
	authRouter.DELETE("/albuns/:albumId", handlers.AlbumDelete)
	// Album image handlers; ?comUrl=true makes the listing include presigned URLs
	authRouter.GET("/albuns/:albumId/imagens", handlers.ImageList)
	authRouter.POST("/albuns/:albumId/imagens/upload-multiplas", handlers.ImageUpload)
	authRouter.PATCH("/albuns/:albumId/imagens/:imagemId/capa", handlers.ImageSetCover)
	authRouter.GET("/albuns/:albumId/imagens/:imagemId/url", handlers.ImageURL)
	authRouter.DELETE("/albuns/:albumId/imagens/:imagemId", handlers.ImageDelete)
	// Regionals
	authRouter.GET("/regionais", handlers.RegionalList)
	authRouter.POST("/regionais/sync", handlers.RegionalSync, "ADMIN")
	// Notifications
	authRouter.GET("/ws/notifications", handlers.NotificationsSocket)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
