package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appconfig "mindpath/config"
	"mindpath/internal/cache"
	aiconfig "mindpath/internal/config"
	"mindpath/internal/repository"
	"mindpath/internal/service"
	"mindpath/internal/transport/rest"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := appconfig.Load()
	aiCfg := aiconfig.DefaultAIConfig()

	log.Printf("AI Config:")
	log.Printf("  Analysis model: %s", aiCfg.Models.Analysis)
	log.Printf("  Probe model:    %s", aiCfg.Models.Probe)
	if aiCfg.IsEnabled() {
		log.Println("  API Key:        configured")
	} else {
		log.Println("  API Key:        NOT SET (rule-based analysis only)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Initialize repositories
	questionRepo := repository.NewQuestionRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)
	answerRepo := repository.NewAnswerRepo(db)
	knowledgeRepo := repository.NewKnowledgeRepo(db)
	resultRepo := repository.NewResultRepo(db)
	outboxRepo := repository.NewOutboxRepo(db)

	if err := resultRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to ensure result indexes:", err)
	}
	if err := outboxRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal("Failed to ensure outbox indexes:", err)
	}

	// Initialize caches
	resultCache := cache.NewResultCache(rdb)

	// Initialize services
	var aiClient service.AIClient
	if aiCfg.IsEnabled() {
		aiClient = service.NewGeminiClient(aiCfg)
	}

	ruleStrategy := service.NewRuleStrategy()
	var aiStrategy *service.AIStrategy
	if aiClient != nil {
		aiStrategy = service.NewAIStrategy(aiClient, ruleStrategy)
	}

	knowledgeSvc := service.NewKnowledgeService(knowledgeRepo)
	orchestrator := service.NewOrchestrator(
		submissionRepo, answerRepo, questionRepo, resultRepo,
		knowledgeSvc, aiStrategy, ruleStrategy,
		time.Duration(aiCfg.AnalysisTimeoutMS)*time.Millisecond,
	)
	orchestrator.SetResultCache(resultCache)

	worker := service.NewOutboxWorker(outboxRepo, orchestrator, 2*time.Second)

	intakeSvc := service.NewIntakeService(questionRepo, submissionRepo, answerRepo, outboxRepo)
	intakeSvc.SetNotifier(worker)

	resultSvc := service.NewResultService(resultRepo, submissionRepo)
	resultSvc.SetResultCache(resultCache)

	healthSvc := service.NewHealthService(
		aiClient,
		service.PingerFunc(func(ctx context.Context) error {
			return mongoClient.Ping(ctx, nil)
		}),
		time.Duration(aiCfg.HealthTimeoutMS)*time.Millisecond,
		time.Duration(aiCfg.ProbeTimeoutMS)*time.Millisecond,
	)

	// Start the analysis worker
	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	go worker.Run(workerCtx)
	log.Println("Analysis worker started")

	// Create router with container
	container := &rest.Container{
		IntakeService:   intakeSvc,
		ResultService:   resultSvc,
		HealthService:   healthSvc,
		QuestionCatalog: questionRepo,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  GET  /v1/questions")
		log.Println("  POST /v1/assessments")
		log.Println("  GET  /v1/assessments/{submissionId}/analysis")
		log.Println("  GET  /health")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopWorker()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
