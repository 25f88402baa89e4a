package main

import (
	"context"
	"log"
	"promptgallery/auth"
	"promptgallery/catalog"
	"promptgallery/config"
	"promptgallery/db"
	"promptgallery/gallery"
	"promptgallery/handlers"
	"promptgallery/models"
	"promptgallery/storage"
	"promptgallery/utils"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const (
	sessionCookieName = "token"
)

func main() {
	db.Init()
	models.Init()
	host := storage.Init()

	store := catalog.NewStore(db.Instance)
	sessionTTL := time.Duration(config.SESSION_TTL_HOURS) * time.Hour
	provider := auth.NewLocalProvider(db.Instance, sessionTTL)
	go purgeSessions(provider)

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	origins := config.SplitList(config.CORS_ORIGINS)
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: origins[0] != "*",
		MaxAge:           12 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{Path: "/", MaxAge: int(sessionTTL.Seconds()), HttpOnly: true})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media", "/api/auth/events"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	// Custom Auth Router
	authRouter := &auth.Router{Base: router, Provider: provider, Users: store}
	h := handlers.NewHandlers(gallery.NewService(store, host), provider)
	h.Register(authRouter)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, config.SplitList(config.TLS_DOMAINS)...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}

// purgeSessions removes expired sign-ins once an hour
func purgeSessions(provider *auth.LocalProvider) {
	for {
		if n, err := provider.PurgeExpired(context.Background()); err != nil {
			log.Printf("Purging sessions failed: %v", err)
		} else if n > 0 {
			log.Printf("Purged %d expired sessions", n)
		}
		time.Sleep(time.Hour)
	}
}
