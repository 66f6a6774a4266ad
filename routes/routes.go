package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"roomdesk-backend/config"
	"roomdesk-backend/controllers"
	"roomdesk-backend/middleware"
	"roomdesk-backend/models"
	"roomdesk-backend/services"
)

// Deps bundles everything the router needs: config, infrastructure handles
// and the controller instances it mounts.
type Deps struct {
	Cfg    *config.AppConfig
	Logger *zap.Logger
	Redis  *redis.Client

	Sites    *services.SiteService
	Visitors *services.VisitorService

	Public      *controllers.PublicController
	Auth        *controllers.AuthController
	Bookings    *controllers.BookingController
	Rooms       *controllers.RoomController
	Seasons     *controllers.SeasonController
	Maintenance *controllers.MaintenanceController
	Users       *controllers.UserController
	Settings    *controllers.SettingsController
	Dashboard   *controllers.DashboardController
	Audit       *controllers.AuditController
	Owner       *controllers.OwnerController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Logger))

	origins := d.Cfg.CORSOrigins
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	public := api.Group("/public/:extension")
	public.Use(middleware.ResolveSite(d.Sites))
	{
		browseLimit := middleware.RateLimit(d.Redis, d.Cfg.RateSearch, "browse")

		public.GET("",
			middleware.RateLimit(d.Redis, d.Cfg.RateHome, "home"),
			middleware.TrackVisitor(d.Visitors, d.Logger),
			d.Public.Home)
		public.GET("/availability", browseLimit, d.Public.Search)
		public.GET("/quote", browseLimit, d.Public.Quote)
		public.GET("/calendar", browseLimit, d.Public.Calendar)
		public.GET("/bookings/:code", browseLimit, d.Public.LookupBooking)
		public.POST("/bookings",
			middleware.RateLimit(d.Redis, d.Cfg.RateConfirm, "confirm"),
			d.Public.ConfirmBooking)
	}

	auth := api.Group("/auth")
	{
		auth.POST("/login", d.Auth.Login)
		auth.POST("/owner/login", d.Auth.OwnerLogin)

		authed := auth.Group("", middleware.RequireAuth(d.Cfg.JWTSecret))
		authed.GET("/me", d.Auth.Me)
		authed.POST("/password", d.Users.ChangeOwnPassword)
	}

	site := api.Group("/admin/sites/:siteID")
	site.Use(middleware.RequireAuth(d.Cfg.JWTSecret), middleware.RequireSiteAccess())
	{
		site.GET("/dashboard", d.Dashboard.Summary)
		site.GET("/calendar", d.Bookings.Calendar)
		site.GET("/tape-chart", d.Bookings.TapeChart)
		site.GET("/audit", d.Audit.Tail)

		bookings := site.Group("/bookings")
		{
			bookings.GET("", d.Bookings.List)
			bookings.POST("", d.Bookings.Create)
			bookings.POST("/expire-pending", d.Bookings.ExpirePending)
			bookings.GET("/export", d.Bookings.ExportXLSX)
			bookings.GET("/:bookingID", d.Bookings.Get)
			bookings.PATCH("/:bookingID", d.Bookings.Edit)
			bookings.DELETE("/:bookingID", d.Bookings.Delete)
			bookings.POST("/:bookingID/confirm", d.Bookings.Transition(models.BookingStatusConfirmed))
			bookings.POST("/:bookingID/checkin", d.Bookings.Transition(models.BookingStatusCheckedIn))
			bookings.POST("/:bookingID/checkout", d.Bookings.Transition(models.BookingStatusCheckedOut))
			bookings.POST("/:bookingID/cancel", d.Bookings.Transition(models.BookingStatusCancelled))
		}

		rooms := site.Group("/rooms")
		{
			rooms.GET("", d.Rooms.List)
			rooms.POST("", d.Rooms.Create)
			rooms.GET("/:roomTypeID", d.Rooms.Get)
			rooms.PATCH("/:roomTypeID", d.Rooms.Edit)
			rooms.GET("/:roomTypeID/availability", d.Rooms.Probe)
			rooms.POST("/:roomTypeID/images", d.Rooms.AddImages)
			rooms.DELETE("/:roomTypeID/images/:imageID", d.Rooms.DeleteImage)
		}
		site.PATCH("/units/:unitID/cleaning", d.Rooms.UpdateCleaning)

		seasons := site.Group("/seasons")
		{
			seasons.GET("", d.Seasons.List)
			seasons.POST("", d.Seasons.Create)
			seasons.PATCH("/:seasonID", d.Seasons.Update)
			seasons.DELETE("/:seasonID", d.Seasons.Delete)
		}

		maintenance := site.Group("/maintenance")
		{
			maintenance.GET("", d.Maintenance.List)
			maintenance.POST("", d.Maintenance.Create)
			maintenance.DELETE("/:blockID", d.Maintenance.Delete)
		}

		site.GET("/settings", d.Settings.Get)
		site.PUT("/settings", d.Settings.Update)
		site.POST("/hero-images", d.Settings.AddHeroImages)
		site.DELETE("/hero-images/:imageID", d.Settings.DeleteHeroImage)

		admin := site.Group("", middleware.RequireAdmin())
		{
			admin.DELETE("/rooms/:roomTypeID", d.Rooms.Delete)
			admin.PUT("/staff-password", d.Users.ChangeStaffPassword)

			users := admin.Group("/users")
			{
				users.GET("", d.Users.List)
				users.POST("", d.Users.Create)
				users.PATCH("/:userID", d.Users.SetUserPassword)
				users.DELETE("/:userID", d.Users.Delete)
			}
		}
	}

	owner := api.Group("/owner")
	owner.Use(middleware.RequireAuth(d.Cfg.JWTSecret), middleware.RequireOwner())
	{
		owner.GET("/sites", d.Owner.ListSites)
		owner.POST("/sites", d.Owner.CreateSite)
		owner.PATCH("/sites/:siteID", d.Owner.PatchSite)
		owner.DELETE("/sites/:siteID", d.Owner.DeleteSite)
		owner.POST("/sites/:siteID/reset-passwords", d.Owner.ResetPasswords)
		owner.GET("/visitors", d.Owner.ListVisitors)
	}

	return r
}
