package main

import (
	"net/http"
	"os"

	"github.com/RoyceCho1/DCDR/internal/api/handlers"
	"github.com/RoyceCho1/DCDR/internal/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Sugar()

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery())

	analyzeHandler := handlers.NewAnalyzeHandler(log)
	dcfHandler := handlers.NewDCFHandler(log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analyze", analyzeHandler.RunAnalyze)
		v1.POST("/dcf", dcfHandler.RunDCF)
		v1.POST("/sensitivity", dcfHandler.RunSensitivity)
	}

	handler := cors.Default().Handler(router)
	log.Infow("listening", "port", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalw("server exited", "error", err)
	}
}
