package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/fitness-tracker/internal/api"
	"alcyxob/fitness-tracker/internal/cache"
	"alcyxob/fitness-tracker/internal/config"
	"alcyxob/fitness-tracker/internal/metrics"
	"alcyxob/fitness-tracker/internal/repository/mongo"
	"alcyxob/fitness-tracker/internal/schedule"
	"alcyxob/fitness-tracker/internal/service"
	"alcyxob/fitness-tracker/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// @title Fitness Tracker API
// @version 1.0
// @description Program day resolution and navigation for training programs.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}
	if err := cfg.Log.SetupLogger(); err != nil {
		log.Fatalf("could not set up logging: %s", err)
	}
	log.Info("starting fitness tracker server")

	loc, err := cfg.Schedule.Location()
	if err != nil {
		log.Fatal(err)
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to mongodb: %s", err)
	}
	defer func() {
		log.Info("disconnecting mongodb")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect mongodb: %s", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Infof("connected to database %s", cfg.Database.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			log.Warnf("index creation incomplete: %s", err)
			return
		}
		log.Info("database indexes ensured")
	}()

	var media storage.MediaStorage
	if cfg.S3.BucketName != "" {
		media, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize s3 storage: %s", err)
		}
	} else {
		log.Warn("s3 bucket not configured, routine thumbnails disabled")
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("fitness", "tracker", promRegistry)

	userRepo := mongo.NewMongoUserRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	assignmentRepo := mongo.NewMongoAssignmentRepository(appDB)
	routineRepo := cache.NewRoutineCache(mongo.NewMongoRoutineRepository(appDB), cfg.Cache.SizeMB, cfg.Cache.RoutineTTL, metricsManager)
	workoutLogRepo := mongo.NewMongoWorkoutLogRepository(appDB)

	calendar := schedule.NewCalendar(schedule.SystemClock{}, loc)
	resolver := schedule.NewActiveProgramResolver(programRepo, assignmentRepo, routineRepo, workoutLogRepo, calendar, metricsManager)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	programDayService := service.NewProgramDayService(resolver, media, cfg.S3.PresignExpiry, cfg.Schedule.NavigatorIdleTTL, metricsManager)
	defer programDayService.Close()
	workoutLogService := service.NewWorkoutLogService(workoutLogRepo, calendar, programDayService)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, cfg.JWT.Secret, api.Services{
		Auth:        authService,
		ProgramDays: programDayService,
		WorkoutLogs: workoutLogService,
	}, loc, promRegistry, metricsManager)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}

	log.Info("server exiting")
}
