package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cpclub/clubhub/config"
	"github.com/cpclub/clubhub/controllers"
	"github.com/cpclub/clubhub/middleware"
	"github.com/cpclub/clubhub/store"
	"github.com/cpclub/clubhub/utils"
)

// SetupRouter wires middleware, controllers and routes into a gin engine.
func SetupRouter() *gin.Engine {
	cfg := config.Get()
	gin.SetMode(cfg.GinMode)

	router := gin.New()

	accessLogger, err := utils.NewRollingFileLogger(
		cfg.GinPath, cfg.LogLevel,
		cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress,
	)
	if err != nil {
		accessLogger = utils.Logger
	}
	router.Use(utils.GinLogger(accessLogger))
	router.Use(utils.GinRecovery(accessLogger))

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	db := config.DB()
	blogs := controllers.NewBlogController(store.NewPostStore(db))
	auth := controllers.NewAuthController(store.NewUserStore(db))
	ranklists := controllers.NewRanklistController(
		store.NewRanklistStore(db),
		store.NewEventStore(db),
		store.NewUserStore(db),
	)
	uploads := controllers.NewUploadController()
	users := controllers.NewUserController(store.NewUserStore(db))

	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")

	// Public surface
	public := api.Group("/")
	{
		public.GET("/blogs", blogs.ListPublishedBlogs)
		public.GET("/blogs/:id", blogs.GetPublishedBlog)

		authGroup := public.Group("/auth")
		authGroup.Use(middleware.RateLimitMiddleware())
		{
			authGroup.POST("/register", auth.Register)
			authGroup.POST("/login", auth.Login)
		}
	}

	// Authenticated surface
	protected := api.Group("/")
	protected.Use(middleware.AuthRequired())
	{
		protected.POST("/auth/logout", auth.Logout)
		protected.GET("/auth/me", auth.Me)
		protected.POST("/auth/change-password", auth.ChangePassword)

		protected.POST("/uploads/presign", uploads.GeneratePresignedURL)

		protected.GET("/users/search", users.Search)

		protected.POST("/events", ranklists.CreateEvent)

		protected.GET("/ranklists", ranklists.ListRanklists)
		protected.POST("/ranklists", ranklists.CreateRanklist)
		protected.GET("/ranklists/:id", ranklists.GetRanklist)
		protected.GET("/ranklists/:id/available-events", ranklists.AvailableEvents)
		protected.POST("/ranklists/:id/events", ranklists.AttachEvent)
		protected.DELETE("/ranklists/:id/events/:eventId", ranklists.DetachEvent)
		protected.GET("/ranklists/:id/available-users", ranklists.SearchUsers)
		protected.POST("/ranklists/:id/members", ranklists.AddMember)

		admin := protected.Group("/admin")
		{
			admin.GET("/blogs", blogs.ListBlogs)
			admin.POST("/blogs", blogs.CreateBlog)
			admin.GET("/blogs/:id", blogs.GetBlog)
			admin.PUT("/blogs/:id", blogs.UpdateBlog)
			admin.DELETE("/blogs/:id", blogs.DeleteBlog)
		}
	}

	router.NoRoute(func(ctx *gin.Context) {
		utils.Fail(ctx, http.StatusNotFound, "route not found")
	})

	return router
}
