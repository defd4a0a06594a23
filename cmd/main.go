package main

import (
  "fmt"
  "os"

  "github.com/lumenlearn/lumen-backend/internal/clients/gcp"
  redisclient "github.com/lumenlearn/lumen-backend/internal/clients/redis"
  "github.com/lumenlearn/lumen-backend/internal/db"
  "github.com/lumenlearn/lumen-backend/internal/handlers"
  "github.com/lumenlearn/lumen-backend/internal/logger"
  "github.com/lumenlearn/lumen-backend/internal/repos"
  "github.com/lumenlearn/lumen-backend/internal/server"
  "github.com/lumenlearn/lumen-backend/internal/services"
  "github.com/lumenlearn/lumen-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Postgres
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Fatal("Postgres init failed", "error", err)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Fatal("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  documentRepo := repos.NewDocumentRepo(thePG, log)
  chunkRepo := repos.NewChunkRepo(thePG, log)
  audioTrackRepo := repos.NewAudioTrackRepo(thePG, log)

  // Clients
  log.Info("Setting up clients from main...")
  docai, err := gcp.NewDocAI(log)
  if err != nil {
    log.Warn("Document AI init failed, OCR disabled", "error", err)
    docai = nil
  }
  var cache redisclient.Cache
  if os.Getenv("REDIS_ADDR") != "" {
    cache, err = redisclient.NewCache(log)
    if err != nil {
      log.Warn("Redis init failed, audio cache disabled", "error", err)
      cache = nil
    }
  }
  var bucket services.BucketService
  if os.Getenv("GCS_BUCKET_NAME") != "" {
    bucket, err = services.NewBucketService(log)
    if err != nil {
      log.Warn("Bucket init failed, audio artifacts disabled", "error", err)
      bucket = nil
    }
  }

  // Hosted model quota: 15 requests/minute, 1500/day.
  perMinute := utils.GetEnvAsInt("LLM_REQUESTS_PER_MINUTE", 15, log)
  perDay := utils.GetEnvAsInt("LLM_REQUESTS_PER_DAY", 1500, log)
  quota := services.NewQuotaCounter(perMinute, perDay)

  llm, err := services.NewLLMClient(log, quota)
  if err != nil {
    log.Fatal("LLM client init failed", "error", err)
  }

  // Services
  log.Info("Setting up services from main...")
  ingestService := services.NewIngestService(log, documentRepo, docai)
  segmentService := services.NewSegmentService(log, chunkRepo, llm)
  generateService := services.NewGenerateService(log, llm)
  adaptService := services.NewAdaptService(log)
  simplifyService := services.NewSimplifyService(log, llm)
  microLessonService := services.NewMicroLessonService(log)
  mathService := services.NewMathService(log)
  roadmapService := services.NewRoadmapService(log)
  audioService, err := services.NewAudioService(log, bucket, audioTrackRepo, cache)
  if err != nil {
    log.Fatal("Audio service init failed", "error", err)
  }
  pipelineService := services.NewPipelineService(
    log,
    ingestService,
    segmentService,
    generateService,
    adaptService,
    microLessonService,
    audioService,
    roadmapService,
  )

  // Handlers
  log.Info("Setting up handlers from main...")
  documentHandler := handlers.NewDocumentHandler(log, ingestService)
  contentHandler := handlers.NewContentHandler(log, segmentService, generateService)
  transformHandler := handlers.NewTransformHandler(
    log,
    simplifyService,
    microLessonService,
    mathService,
    audioService,
    roadmapService,
    adaptService,
  )
  pipelineHandler := handlers.NewPipelineHandler(log, pipelineService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    DocumentHandler:  documentHandler,
    ContentHandler:   contentHandler,
    TransformHandler: transformHandler,
    PipelineHandler:  pipelineHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
