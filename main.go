package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"main/config"
	"main/handler"
	"main/middleware"
	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"REDIS_URL",
		"PORT",
	}

	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()

	dbCfg := config.LoadDatabaseConfig()
	utils.InitMongoClient(dbCfg.URI, dbCfg.MaxPoolSize, dbCfg.MinPoolSize, dbCfg.MaxConnIdleTime, dbCfg.RetryWrites)
}

type appServices struct {
	identity     *services.PlatformIdentity
	sessionCache *services.SessionCache
	loginService *services.LoginService
	bootstrapper *services.SessionBootstrapper
	security     *services.SecurityService
	profileStore services.ProfileStore
	eventRepo    *repository.SecurityEventRepo
	campaignRepo *repository.CampaignRepo
	contactRepo  *repository.ContactRepo
}

func buildServices() *appServices {
	redisCfg := config.LoadRedisConfig()

	profileRepo := repository.GetProfileRepo(utils.MongoClient)
	clientRepo := repository.GetClientProfileRepo(utils.MongoClient)
	sessionRepo := repository.GetSessionRepo(utils.MongoClient)
	eventRepo := repository.GetSecurityEventRepo(utils.MongoClient)
	campaignRepo := repository.GetCampaignRepo(utils.MongoClient)
	contactRepo := repository.GetContactRepo(utils.MongoClient)

	sessionCache, err := services.NewSessionCache(redisCfg.URL)
	if err != nil {
		log.Fatalf("Failed to connect session cache: %v", err)
	}

	profileStore, err := services.NewRedisProfileStore(redisCfg.URL)
	if err != nil {
		log.Fatalf("Failed to connect profile store: %v", err)
	}

	identity := services.NewPlatformIdentity(profileRepo, sessionRepo, sessionCache)
	security := services.NewSecurityService(eventRepo, identity)
	loginService := services.NewLoginService(clientRepo, profileRepo, identity, profileStore, security)
	bootstrapper := services.NewSessionBootstrapper(identity, profileRepo, profileStore, security)

	return &appServices{
		identity:     identity,
		sessionCache: sessionCache,
		loginService: loginService,
		bootstrapper: bootstrapper,
		security:     security,
		profileStore: profileStore,
		eventRepo:    eventRepo,
		campaignRepo: campaignRepo,
		contactRepo:  contactRepo,
	}
}

func setupRouter(app *appServices) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestSizeLimiter(1 << 20))

	router.GET("/health", func(c *gin.Context) {
		handler.HealthCheckHandler(c, app.sessionCache)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes (no authentication required)
	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		auth.Use(middleware.RateLimitMiddleware(app.security, 10, time.Minute))
		{
			auth.POST("/login", func(c *gin.Context) {
				handler.LoginHandler(c, app.loginService)
			})
			auth.GET("/session", func(c *gin.Context) {
				handler.GetAuthStateHandler(c, app.bootstrapper)
			})
			auth.GET("/csrf", func(c *gin.Context) {
				handler.CSRFTokenHandler(c, app.security)
			})
		}
	}

	// Protected routes (authentication required)
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/auth/logout", func(c *gin.Context) {
			handler.LogoutHandler(c, app.identity, app.profileStore, app.security)
		})
		protected.POST("/auth/refresh", func(c *gin.Context) {
			handler.RefreshTokenHandler(c, app.identity)
		})

		campaigns := protected.Group("/campaigns")
		{
			campaigns.GET("/", func(c *gin.Context) {
				handler.GetCampaignsHandler(c, app.campaignRepo)
			})
			campaigns.POST("/", func(c *gin.Context) {
				handler.CreateCampaignHandler(c, app.campaignRepo)
			})
			campaigns.PUT("/:id/status", func(c *gin.Context) {
				handler.UpdateCampaignStatusHandler(c, app.campaignRepo)
			})
			campaigns.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteCampaignHandler(c, app.campaignRepo)
			})
		}

		contacts := protected.Group("/contacts")
		{
			contacts.GET("/", func(c *gin.Context) {
				handler.GetContactsHandler(c, app.contactRepo)
			})
			contacts.POST("/", func(c *gin.Context) {
				handler.CreateContactHandler(c, app.contactRepo)
			})
			contacts.PUT("/:id", func(c *gin.Context) {
				handler.UpdateContactHandler(c, app.contactRepo)
			})
			contacts.DELETE("/:id", func(c *gin.Context) {
				handler.DeleteContactHandler(c, app.contactRepo)
			})
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.RequireRole("admin", "super_admin"))
		{
			admin.GET("/security-events", func(c *gin.Context) {
				handler.GetSecurityEventsHandler(c, app.eventRepo)
			})
		}
	}

	return router
}

func main() {
	app := buildServices()

	if err := app.bootstrapper.Start(context.Background()); err != nil {
		log.Printf("Session bootstrap error: %v", err)
	}
	defer app.bootstrapper.Close()
	defer app.sessionCache.Close()

	router := setupRouter(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	serverAddr := fmt.Sprintf(":%s", port)
	log.Printf("Server starting on %s", serverAddr)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
