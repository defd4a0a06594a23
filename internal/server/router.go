package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/lumenlearn/lumen-backend/internal/handlers"
)

type RouterConfig struct {
  DocumentHandler   *handlers.DocumentHandler
  ContentHandler    *handlers.ContentHandler
  TransformHandler  *handlers.TransformHandler
  PipelineHandler   *handlers.PipelineHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", handlers.HealthCheck)

  api := router.Group("/api")
  {
    // Documents
    api.POST("/documents/upload", cfg.DocumentHandler.Upload)
    api.POST("/documents/text", cfg.DocumentHandler.IngestText)
    api.GET("/documents/:id", cfg.DocumentHandler.Get)

    // Segmentation + generation
    api.POST("/segment", cfg.ContentHandler.Segment)
    api.POST("/generate", cfg.ContentHandler.Generate)
    api.GET("/llm-stats", cfg.ContentHandler.Stats)

    // Transforms
    api.POST("/simplify", cfg.TransformHandler.Simplify)
    api.POST("/micro-lessons", cfg.TransformHandler.MicroLessons)
    api.POST("/math/solve", cfg.TransformHandler.SolveMath)
    api.POST("/audio", cfg.TransformHandler.Audio)
    api.POST("/roadmap", cfg.TransformHandler.Roadmap)
    api.POST("/personalize", cfg.TransformHandler.Personalize)

    // Full pipeline
    api.POST("/pipeline/complete", cfg.PipelineHandler.Complete)
  }

  return router
}
