package main

import (
	"log"
	"strings"
	"time"

	"gallery/auth"
	"gallery/config"
	"gallery/db"
	"gallery/handlers"
	"gallery/maintenance"
	"gallery/models"
	"gallery/storage"
	"gallery/translate"
	"gallery/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 30 * 86400 // 30 days
)

func main() {
	db.Init(config.MYSQL_DSN, config.SQLITE_FILE)
	models.Init()
	translate.Init()
	storage.Init(config.IMAGES_ROOT, config.AUDIO_ROOT)

	cache := translate.NewCache()
	engine := translate.NewEngine(cache)
	handlers.Initialize(engine)
	scheduler := maintenance.Start(cache)
	defer scheduler.Stop()

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/images/", "/audio/"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	// Public catalog
	router.GET("/collections", handlers.CollectionList)
	router.GET("/collections/:slug", handlers.CollectionDetails)
	router.GET("/categories", handlers.CategoryLabels)
	router.GET("/sitemap.xml", handlers.Sitemap)
	// Public blog
	router.GET("/blog", handlers.BlogList)
	router.GET("/blog/:id", handlers.BlogDetails)
	// Inquiries
	router.POST("/inquiries", handlers.InquiryCreate)
	// Media files
	router.GET("/images/:name", handlers.MediaImage)
	router.GET("/audio/:name", handlers.MediaAudio)
	// Session
	router.POST("/user/login", handlers.UserLogin)
	router.POST("/user/logout", handlers.UserLogout)
	router.GET("/user/status", handlers.UserStatus)

	// Custom Auth Router
	authRouter := &auth.Router{Base: router}
	// Admin catalog management
	authRouter.POST("/admin/collections", handlers.CollectionSave, models.PermissionAdmin)
	authRouter.POST("/admin/collections/:id", handlers.CollectionUpdate, models.PermissionAdmin)
	authRouter.PUT("/admin/collections/:id/order", handlers.CollectionReorder, models.PermissionAdmin)
	authRouter.DELETE("/admin/collections/:id", handlers.CollectionDelete, models.PermissionAdmin)
	authRouter.DELETE("/admin/collections/:id/images/:imageId", handlers.CollectionImageDelete, models.PermissionAdmin)
	// Admin blog management
	authRouter.POST("/admin/blog", handlers.BlogSave, models.PermissionAdmin)
	authRouter.POST("/admin/blog/:id", handlers.BlogUpdate, models.PermissionAdmin)
	authRouter.DELETE("/admin/blog/:id", handlers.BlogDelete, models.PermissionAdmin)
	// Admin inquiries and comments
	authRouter.GET("/admin/inquiries", handlers.InquiryList, models.PermissionAdmin)
	authRouter.GET("/admin/comments", handlers.CommentModerationList, models.PermissionAdmin)
	authRouter.POST("/comments", handlers.CommentCreate)
	authRouter.DELETE("/comments/:id", handlers.CommentDelete)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
