package server

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates the gin engine with the catalog, reader and health
// endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.SessionLoadSave())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	bibleController := NewBibleController(cfg.Bible, cfg.DefaultVersion)
	readerController := NewReaderController(cfg.Readers)

	router.GET("/health", health.Status)

	router.GET("/versions", bibleController.Versions)
	router.GET("/books", bibleController.Books)
	router.GET("/chapters", bibleController.Chapters)
	router.GET("/chapter", bibleController.Chapter)

	user := router.Group("/api/user", ReaderMiddleware(cfg.Sessions))
	user.GET("/last-read", readerController.GetLastRead)
	user.POST("/last-read", readerController.SaveLastRead)
	user.GET("/preferences", readerController.GetPreferences)
	user.PUT("/preferences", readerController.SavePreferences)

	return router
}
