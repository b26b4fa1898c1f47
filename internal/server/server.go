package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"fitclub/internal/auth"
	"fitclub/internal/booking"
	"fitclub/internal/class"
	"fitclub/internal/config"
	"fitclub/internal/gym"
	"fitclub/internal/notification"
	"fitclub/internal/subscription"
	"fitclub/internal/user"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	config *config.Config
}

func New(db *sqlx.DB, rdb *redis.Client, cfg *config.Config, reminders *notification.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	userRepo := user.NewRepository(db)
	gymRepo := gym.NewRepository(db)
	classRepo := class.NewRepository(db)
	bookingRepo := booking.NewRepository(db)
	subscriptionRepo := subscription.NewRepository(db)

	gymCache := gym.NewRedisCache(rdb, cfg.GymCacheTTL)
	gymService := gym.NewService(gymRepo, gymCache)
	classService := class.NewService(classRepo, gymService)
	userService := user.NewService(userRepo, cfg.JWTSecret)
	bookingService := booking.NewService(bookingRepo, classRepo, gymService, userRepo, subscriptionRepo, reminders)

	userHandler := user.NewHandler(userService)
	gymHandler := gym.NewHandler(gymService)
	classHandler := class.NewHandler(classService)
	bookingHandler := booking.NewHandler(bookingService)
	subscriptionHandler := subscription.NewHandler(subscriptionRepo)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	router.GET("/subscriptions/plans", subscriptionHandler.ListPlans)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/gyms", gymHandler.ListGyms)
		protected.GET("/gyms/:gymID", gymHandler.GetGym)
		protected.GET("/gyms/:gymID/classes", classHandler.ListClasses)
		protected.GET("/gyms/:gymID/schedule", classHandler.GetSchedule)
		protected.GET("/classes/:classID", classHandler.GetClass)

		protected.POST("/bookings", bookingHandler.BookClass)
		protected.GET("/bookings", bookingHandler.ListMyBookings)
		protected.DELETE("/bookings/:bookingID", bookingHandler.CancelBooking)

		protected.POST("/subscriptions", subscriptionHandler.Create)
		protected.GET("/subscriptions", subscriptionHandler.ListMine)
		protected.POST("/subscriptions/:subscriptionID/cancel", subscriptionHandler.Cancel)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/gyms", gymHandler.CreateGym)
		admin.POST("/gyms/:gymID/classes", classHandler.CreateClass)
		admin.GET("/gyms/:gymID/bookings", bookingHandler.ListBookingsByGym)
		admin.GET("/classes/:classID/bookings", bookingHandler.ListBookingsByClass)
		admin.GET("/analytics/bookings", bookingHandler.GetBookingAnalytics)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the gin engine for handler tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
