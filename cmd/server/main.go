package main

import (
	"context"
	"log"
	"strconv"

	"contrahub/config"
	"contrahub/controllers"
	"contrahub/routes"
	"contrahub/services"
	"contrahub/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load the configuration from the specified YAML file
	cfg, err := config.LoadConfig("./config/config.yml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	generator, err := buildGenerator(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize model client: %v", err)
	}

	reddit := services.NewRedditClient(cfg)
	counter := services.NewCounterArgumentService(generator)

	controllers.InitPipelineControllers(reddit, counter, reddit)
	websocket.InitPipelineFeed(reddit, counter)

	router := setupRouter()
	port := strconv.Itoa(cfg.Server.Port)
	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildGenerator picks the model provider configured for the pipeline
func buildGenerator(cfg *config.Config) (services.TextGenerator, error) {
	if cfg.LLM.Provider == "gemini" {
		return services.NewGemini(context.Background(), cfg)
	}
	return services.NewChatGPT(cfg), nil
}

func setupRouter() *gin.Engine {
	router := gin.Default()

	// Set trusted proxies (adjust as needed)
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:8080"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// The single-page UI
	router.StaticFile("/", "./web/index.html")

	routes.SetupPipelineRoutes(&router.RouterGroup)
	router.GET("/ws/pipeline", websocket.PipelineFeedHandler)

	return router
}
