package main

import (
	"context"
	"net/http"
	"time"

	"github.com/MartellOnell/testwork/config"
	"github.com/MartellOnell/testwork/database"
	"github.com/MartellOnell/testwork/internal/cache"
	authorctrl "github.com/MartellOnell/testwork/internal/controller/author"
	respondentctrl "github.com/MartellOnell/testwork/internal/controller/respondent"
	"github.com/MartellOnell/testwork/internal/logger"
	"github.com/MartellOnell/testwork/internal/middleware"
	"github.com/MartellOnell/testwork/internal/model"
	"github.com/MartellOnell/testwork/internal/repository"
	"github.com/MartellOnell/testwork/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Survey Collection API
// @version 1.0
// @description Survey authoring and response collection: authors build surveys, respondents answer one question at a time, owners read aggregated statistics.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewRedisClient,
			NewGinEngine,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewSurveyRepository,
			repository.NewQuestionRepository,
			repository.NewAnswerOptionRepository,
			repository.NewSessionRepository,
			repository.NewUserAnswerRepository,
		),

		// Services Layer
		fx.Provide(
			cache.NewStatisticsCache,
			service.NewSurveyService,
			service.NewProgressService,
			service.NewAnswerService,
			service.NewStatisticsService,
		),

		// API Controllers Layer
		fx.Provide(
			authorctrl.NewAuthorSurveyController,
			respondentctrl.NewRespondentSurveyController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

// NewRedisClient is optional infrastructure: with no address configured the
// statistics cache degrades to a no-op and everything else works unchanged.
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("REDIS_ADDR not set, statistics caching disabled")
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	// Route gin's request log through zerolog.
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authorCtrl *authorctrl.AuthorSurveyController,
	respondentCtrl *respondentctrl.RespondentSurveyController,
) {
	api := router.Group("/api/v1")
	api.Use(middleware.Identity(cfg.Auth.TokenSecret))

	// Author routes
	authorGroup := api.Group("/author/surveys")
	{
		authorGroup.POST("", authorCtrl.CreateSurvey)
		authorGroup.POST("/:survey_id/deactivate", authorCtrl.DeactivateSurvey)
		authorGroup.GET("/:survey_id/statistics", authorCtrl.GetStatistics)
	}

	// Respondent routes
	surveyGroup := api.Group("/surveys")
	{
		surveyGroup.GET("", respondentCtrl.ListSurveys)
		surveyGroup.GET("/:survey_id", respondentCtrl.GetSurveyDetails)
		surveyGroup.GET("/:survey_id/next-question", respondentCtrl.NextQuestion)
		surveyGroup.POST("/:survey_id/submit-answer", respondentCtrl.SubmitAnswer)
		surveyGroup.GET("/:survey_id/my-session", respondentCtrl.GetMySession)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Survey API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Survey{},
		&model.Question{},
		&model.AnswerOption{},
		&model.SurveySession{},
		&model.UserAnswer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	// AutoMigrate cannot express a partial index; this one guarantees the
	// single-incomplete-session invariant behind GetOrCreateActive.
	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_session_per_user_survey
		 ON survey_sessions (user_id, survey_id) WHERE is_completed = false`,
	).Error
	if err != nil {
		log.Error().Err(err).Msg("Failed to create active session index")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
