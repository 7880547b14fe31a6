package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"github.com/chronohq/chrono-interviews/config"
	"github.com/chronohq/chrono-interviews/internal/agent"
	"github.com/chronohq/chrono-interviews/internal/api/handlers"
	"github.com/chronohq/chrono-interviews/internal/api/middleware"
	"github.com/chronohq/chrono-interviews/internal/api/routes"
	"github.com/chronohq/chrono-interviews/internal/cache"
	"github.com/chronohq/chrono-interviews/internal/logger"
	"github.com/chronohq/chrono-interviews/internal/models"
	"github.com/chronohq/chrono-interviews/internal/providers/llm"
	"github.com/chronohq/chrono-interviews/internal/providers/stt"
	"github.com/chronohq/chrono-interviews/internal/providers/tts"
	"github.com/chronohq/chrono-interviews/internal/providers/video"
	mongorepo "github.com/chronohq/chrono-interviews/internal/repositories/mongo"
	pgrepo "github.com/chronohq/chrono-interviews/internal/repositories/postgres"
	"github.com/chronohq/chrono-interviews/internal/services"
	"github.com/chronohq/chrono-interviews/internal/storage"
	"github.com/chronohq/chrono-interviews/internal/workers"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()
	ctx := context.Background()

	// Mongo is the source of truth for users, interviews, and sessions.
	if err := config.InitMongo(); err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	if err := config.EnsureMongoIndexes(); err != nil {
		log.Fatalf("MongoDB index error: %v", err)
	}
	l.Info("MongoDB connected")

	db := config.MongoDatabase()

	userRepo := mongorepo.NewUserRepo(db)
	interviewRepo := mongorepo.NewInterviewRepo(db)
	botSessionRepo := mongorepo.NewBotSessionRepo(db)
	meetingRepo := mongorepo.NewMeetingRepo(db)

	// LLM backend drives both the turn engine and the scorer.
	project := os.Getenv("GOOGLE_CLOUD_PROJECT")
	location := os.Getenv("GOOGLE_CLOUD_LOCATION")
	if location == "" {
		location = "us-central1"
	}
	var llmOpts []option.ClientOption
	if creds := os.Getenv("GOOGLE_CREDENTIALS_FILE"); creds != "" {
		llmOpts = append(llmOpts, option.WithCredentialsFile(creds))
	}
	gemini, err := llm.NewVertexGemini(ctx, project, location, os.Getenv("GEMINI_MODEL"), llmOpts...)
	if err != nil {
		log.Fatalf("Vertex AI init error: %v", err)
	}
	defer gemini.Close()

	// Redis backs the live session store and the turn-archive stream;
	// without it conversations live in process memory only.
	var store agent.Store = agent.NewMemoryStore()
	var archiver agent.Archiver
	if os.Getenv("REDIS_ADDR") != "" || os.Getenv("REDIS_URI") != "" || os.Getenv("REDIS_URL") != "" {
		if err := config.InitRedis(); err != nil {
			log.Fatalf("Redis init error: %v", err)
		}
		l.Info("Redis connected")
		store = agent.NewRedisStore(cache.NewRedisCache(config.RedisClient), 24*time.Hour)
		archiver = &workers.RedisArchiver{Redis: config.RedisClient}
	}

	// Postgres holds the durable conversation archive.
	if os.Getenv("POSTGRES_URI") != "" {
		if err := config.InitPostgres(); err != nil {
			log.Fatalf("PostgreSQL init error: %v", err)
		}
		if err := config.PostgresDB.AutoMigrate(&models.ConversationLog{}); err != nil {
			log.Fatalf("PostgreSQL migrate error: %v", err)
		}
		l.Info("PostgreSQL connected")

		if archiver != nil {
			pool := &workers.ArchiveWorkerPool{
				Redis:  config.RedisClient,
				Convos: pgrepo.NewConversationRepo(config.PostgresDB),
				Logger: l,
			}
			if err := pool.Start(ctx); err != nil {
				log.Fatalf("archive worker error: %v", err)
			}
		}
	}

	engine := agent.NewEngine(store, gemini, archiver, l)
	scorer := agent.NewScorer(gemini, l)

	// Optional speech providers for voice interviews.
	var sttProvider stt.Provider
	var ttsProvider tts.Provider
	if os.Getenv("VOICE_ENABLED") == "true" {
		gs, err := stt.NewGoogleSpeech(ctx)
		if err != nil {
			log.Fatalf("Google Speech init error: %v", err)
		}
		defer gs.Close()
		sttProvider = gs

		gt, err := tts.NewGoogleTTS(ctx)
		if err != nil {
			log.Fatalf("Google TTS init error: %v", err)
		}
		defer gt.Close()
		ttsProvider = gt
	}

	// Optional voice audio retention.
	var uploader storage.Uploader
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		up, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
		defer up.Close()
		uploader = up
	}

	botSvc := services.NewBotSessionService(services.BotSessionDeps{
		Sessions:   botSessionRepo,
		Interviews: interviewRepo,
		Users:      userRepo,
		Engine:     engine,
		Scorer:     scorer,
		STT:        sttProvider,
		TTS:        ttsProvider,
		Uploader:   uploader,
		Logger:     l,
	})
	meetingSvc := services.NewMeetingService(meetingRepo, interviewRepo, video.NewDaily(os.Getenv("DAILY_API_KEY")), scorer, l)
	authSvc := services.NewAuthService(userRepo)
	interviewSvc := services.NewInterviewService(interviewRepo, userRepo)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l))

	routes.RegisterRoutes(r, routes.Deps{
		Auth:      handlers.NewAuthHandler(authSvc),
		Interview: handlers.NewInterviewHandler(interviewSvc),
		Meeting:   handlers.NewMeetingHandler(meetingSvc),
		Agent:     handlers.NewAgentHandler(botSvc),
		WS:        handlers.NewWSHandler(botSvc),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
