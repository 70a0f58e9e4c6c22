// Package http builds the HTTP surface: routing, middleware and handlers.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mayank-anckr/express-kit/internal/api/graphql"
	"github.com/mayank-anckr/express-kit/internal/api/http/handler"
	"github.com/mayank-anckr/express-kit/internal/api/http/middleware"
	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/metrics"
	"github.com/mayank-anckr/express-kit/internal/model"
)

// RouterConfig carries everything the router needs to assemble the routes.
type RouterConfig struct {
	AuthService    handler.AuthService
	ProfileService handler.ProfileService
	FileService    handler.FileService
	StripeService  handler.StripeService
	PhonePeService handler.PhonePeService
	PushSender     model.PushSender
	Tokens         model.TokenManager
	ContextManager model.ContextManager
	Metrics        *metrics.Metrics
	RateLimitRPS   float64
	RateLimitBurst int
	Logger         *logger.Logger
}

// NewRouter assembles the gin engine with all routes and middleware.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.NewLogging(cfg.Logger).Handle())
	engine.Use(middleware.NewMetrics(cfg.Metrics).Handle())

	authMiddleware := middleware.NewAuthenticate(cfg.Tokens, cfg.ContextManager, cfg.Logger)
	rateLimit := middleware.NewRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)

	authHandler := handler.NewAuth(cfg.AuthService, cfg.Metrics, cfg.Logger)
	profileHandler := handler.NewProfile(cfg.ProfileService, cfg.Logger)
	fileHandler := handler.NewFile(cfg.FileService, cfg.ContextManager, cfg.Logger)
	notificationHandler := handler.NewNotification(cfg.PushSender, cfg.Logger)
	paymentHandler := handler.NewPayment(cfg.StripeService, cfg.PhonePeService, cfg.Logger)

	resolver := graphql.NewResolver(cfg.AuthService, cfg.ProfileService, cfg.ContextManager, cfg.Logger)
	schema, err := resolver.Schema()
	if err != nil {
		return nil, err
	}
	graphqlHandler := graphql.NewHandler(schema, cfg.Logger)

	engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "Success", "message": "server is running"})
	})
	engine.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	// Gateway callbacks are never throttled; a burst of webhooks must not be
	// dropped.
	payments := engine.Group("/api")
	payments.POST("/webhook", paymentHandler.StripeWebhook)
	payments.POST("/payment-callback", paymentHandler.Callback)

	api := engine.Group("/api")
	api.Use(rateLimit.Handle())

	api.POST("/signup", authHandler.SignUp)
	api.POST("/signin", authHandler.SignIn)
	api.GET("/refreshAccessToken", authHandler.RefreshAccessToken)
	api.POST("/forgot-password", authHandler.ForgotPassword)
	api.POST("/reset-password", authHandler.ResetPassword)

	protected := api.Group("")
	protected.Use(authMiddleware.Require())
	protected.GET("/signout", authHandler.SignOut)
	protected.GET("/allUser", profileHandler.ListAccounts)
	protected.GET("/profile-details", profileHandler.GetAll)
	protected.GET("/profile-detail/:id", profileHandler.Get)
	protected.PUT("/profile-detail/:id", profileHandler.Update)
	protected.DELETE("/profile-delete/:id", profileHandler.Delete)
	protected.POST("/uploadFile", fileHandler.Upload)
	protected.POST("/uploadFileBase64", fileHandler.UploadBase64)
	protected.GET("/downloadFile", fileHandler.Download)
	protected.POST("/userNotification", notificationHandler.Send)
	protected.POST("/pay", paymentHandler.Pay)

	engine.POST("/graphql", rateLimit.Handle(), authMiddleware.Optional(), graphqlHandler.Handle)

	return engine, nil
}
