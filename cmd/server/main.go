package main

import (
	"log"
	"strconv"

	"debatedojo/config"
	"debatedojo/internal/quota"
	"debatedojo/routes"
	"debatedojo/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; secrets may also come from the real environment
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Quota enforcement is fail-open: without Redis the server still runs,
	// it just stops rate limiting.
	if cfg.Redis.Addr != "" {
		if err := quota.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
			log.Printf("Quota store unavailable, rate limiting disabled: %v", err)
		} else {
			log.Println("Connected to Redis")
		}
	} else {
		log.Println("No Redis configured, rate limiting disabled")
	}

	if err := services.InitDebateService(cfg); err != nil {
		log.Fatalf("Failed to initialize debate service: %v", err)
	}

	// Set up the Gin router and configure routes
	router := setupRouter(cfg)
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	// Set trusted proxies (adjust as needed)
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	router.OPTIONS("/*path", func(c *gin.Context) { c.Status(204) })

	routes.SetupDebateRoutes(router)

	return router
}
