package http

import (
	"github.com/gin-gonic/gin"

	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type Handlers struct {
	Content *ContentHandler
	Admin   *AdminHandler
	Backup  *BackupHandler
	Search  *SearchHandler
	RSS     *RSSHandler
	Contact *ContactHandler
}

func NewRouter(h Handlers, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log), ErrorMiddleware(log))

	router.GET("/", h.Content.Page)

	api := router.Group("/api")
	{

		admin := api.Group("/admin")
		{
			admin.GET("/dashboard", h.Admin.GetDashboard)
			admin.GET("/search", h.Search.SearchAdmin)

			items := admin.Group("/collections/:collection")
			{
				items.GET("", h.Admin.ListItems)
				items.POST("", h.Admin.CreateItem)
				items.GET("/:id", h.Admin.GetItem)
				items.PUT("/:id", h.Admin.UpdateItem)
				items.DELETE("/:id", h.Admin.DeleteItem)
			}

			admin.PATCH("/sections/:section", h.Admin.PatchSection)
			admin.PUT("/editor/content", h.Admin.SaveContent)
			admin.PUT("/editor/settings", h.Admin.SaveSettings)

			session := admin.Group("/session")
			{
				session.GET("", h.Admin.SessionState)
				session.POST("/:collection", h.Admin.OpenCreate)
				session.POST("/:collection/:id", h.Admin.OpenEdit)
				session.PUT("", h.Admin.SaveSession)
				session.DELETE("", h.Admin.CancelSession)
			}

			backup := admin.Group("/backup")
			{
				backup.GET("", h.Backup.Export)
				backup.POST("", h.Backup.Import)
				backup.POST("/upload", h.Backup.Upload)
			}

			admin.POST("/reconcile/restore", h.Admin.RestoreFromBackup)
			admin.DELETE("/reconcile/local", h.Admin.DiscardLocalChanges)
			admin.POST("/save", h.Admin.Persist)
		}

		public := api.Group("/")
		{
			public.GET("/health", h.Content.Health)
			public.GET("/content", h.Content.GetContent)
			public.GET("/content/:section", h.Content.GetSection)
			public.GET("/search", h.Search.SearchPublic)
			public.GET("/rss", h.RSS.GenerateRSS)
			public.POST("/contact", h.Contact.SendMessage)
		}
	}

	return router
}
