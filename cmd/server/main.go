package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ManojKumarKarumanchi/voice-rag-agent/config"
	"github.com/ManojKumarKarumanchi/voice-rag-agent/controller"
	"github.com/ManojKumarKarumanchi/voice-rag-agent/services"
	"github.com/ManojKumarKarumanchi/voice-rag-agent/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables.")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		logrus.Fatalf("FATAL: Failed to load config: %v", err)
	}

	httpClient := &http.Client{
		Timeout: time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	}

	// Embedder construction blocks until a provider is resolved, so every
	// request sees a ready embedding model.
	logrus.Info("Loading embedding model...")
	embedder, err := services.NewEmbedder(cfg.Embedder, httpClient)
	if err != nil {
		logrus.Fatalf("FATAL: Failed to create embedder: %v", err)
	}
	logrus.Info("Embedding model loaded")

	vectorStore, err := store.NewStore(cfg.Server.StoreDir)
	if err != nil {
		logrus.Fatalf("FATAL: Failed to create vector store: %v", err)
	}

	ragService := services.NewRAGService(embedder, vectorStore, cfg.Chunker.ChunkSize, cfg.Chunker.ChunkOverlap)
	tokenService := services.NewTokenService(
		os.Getenv("LIVEKIT_API_KEY"),
		os.Getenv("LIVEKIT_API_SECRET"),
		os.Getenv("LIVEKIT_URL"),
	)
	ragController := controller.NewRAGController(ragService, tokenService)

	if cfg.Watch.Dir != "" {
		watcher := services.NewDocumentWatcher(ragService)
		go watcher.WatchDirectory(context.Background(), cfg.Watch.Dir)
	}

	router := gin.Default()

	// CORS middleware so the browser frontend can talk to us directly
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", ragController.Health)
	router.POST("/upload", ragController.Upload)
	router.GET("/ragStatus", ragController.RAGStatus)
	router.POST("/retrieve", ragController.Retrieve)
	router.POST("/getToken", ragController.GetToken)

	logrus.Infof("Voice RAG backend starting on %s", cfg.Server.Addr)
	if err := router.Run(cfg.Server.Addr); err != nil {
		logrus.Fatalf("FATAL: Failed to start server: %v", err)
	}
}
